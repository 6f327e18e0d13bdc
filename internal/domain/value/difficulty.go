package value

import (
	"fmt"
	"strings"

	"explore_tours/internal/domain"
	"explore_tours/pkg/errcodes"
)

type Difficulty string

const (
	DifficultyEasy      Difficulty = "EASY"
	DifficultyMedium    Difficulty = "MEDIUM"
	DifficultyDifficult Difficulty = "DIFFICULT"
	DifficultyVaries    Difficulty = "VARIES"
)

//nolint:gochecknoglobals
var difficulties = map[string]Difficulty{
	string(DifficultyEasy):      DifficultyEasy,
	string(DifficultyMedium):    DifficultyMedium,
	string(DifficultyDifficult): DifficultyDifficult,
	string(DifficultyVaries):    DifficultyVaries,
}

// ParseDifficulty accepts an enum name in any letter case.
func ParseDifficulty(name string) (Difficulty, error) {
	d, ok := difficulties[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return "", domain.NewValidationError(
			errcodes.InvalidDifficulty,
			fmt.Sprintf("unknown difficulty %q", name),
		)
	}

	return d, nil
}

func (d Difficulty) String() string {
	return string(d)
}
