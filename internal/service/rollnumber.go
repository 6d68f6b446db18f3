package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"school-service/internal/apperr"
	"school-service/internal/model"
	"school-service/internal/tenant"
)

var trailingDigits = regexp.MustCompile(`(\d+)$`)

// nowFunc is overridable in tests.
var nowFunc = time.Now

// GenerateRollNumber produces the next roll number for a section as
// <year><suffix zero-padded to 3 digits>. The suffix is the numeric maximum
// over all existing roll numbers in the section, not the lexicographically
// last one: string ordering diverges from numeric ordering once the suffix
// outgrows its padding, so sorting would reset the sequence at 1000.
func GenerateRollNumber(db *gorm.DB, t tenant.Context, sectionID uint) (string, error) {
	var rolls []string
	err := db.Model(&model.Student{}).
		Where("aamar_id = ? AND section_id = ?", t.AamarID, sectionID).
		Pluck("roll_number", &rolls).Error
	if err != nil {
		return "", apperr.FromDB(err, "", "failed to generate roll number")
	}

	year := nowFunc().Year()
	yearPrefix := strconv.Itoa(year)

	max := 0
	for _, roll := range rolls {
		suffix := roll
		if strings.HasPrefix(roll, yearPrefix) {
			suffix = roll[len(yearPrefix):]
		} else if m := trailingDigits.FindString(roll); m != "" {
			suffix = m
		}
		if n, err := strconv.Atoi(suffix); err == nil && n > max {
			max = n
		}
	}

	return fmt.Sprintf("%d%03d", year, max+1), nil
}
