package model

import (
	"errors"
	"fmt"
)

// Surah and juz bounds.
const (
	SurahCount = 114
	JuzCount   = 30
)

type Surah struct {
	ID            int     `json:"id"`
	Number        int     `json:"number,omitempty"`
	Name          string  `json:"name"`
	NameArabic    string  `json:"name_arabic,omitempty"`
	TranslationEN *string `json:"translation_en,omitempty"`
	VersesCount   *int    `json:"verses_count,omitempty"`
}

func (s Surah) Validate() error {
	if s.ID <= 0 {
		return errors.New("surah: missing id")
	}
	if s.Name == "" {
		return fmt.Errorf("surah %d: missing name", s.ID)
	}
	return nil
}

// SurahList is the response of GET /surahs.
type SurahList []Surah

func (l SurahList) Validate() error {
	for _, s := range l {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// JuzDetail is the response of GET /juz/{n}.
type JuzDetail struct {
	Surahs      []Surah      `json:"surahs"`
	Recitations []Recitation `json:"recitations"`
}

func (d JuzDetail) Validate() error {
	if err := SurahList(d.Surahs).Validate(); err != nil {
		return err
	}
	return validateRecitations(d.Recitations)
}

// SurahDetail is the response of GET /surah/{id}.
type SurahDetail struct {
	Info        *Surah       `json:"info"`
	Recitations []Recitation `json:"recitations"`
}

func (d SurahDetail) Validate() error {
	if d.Info == nil {
		return errors.New("surah detail: missing info")
	}
	if err := d.Info.Validate(); err != nil {
		return err
	}
	return validateRecitations(d.Recitations)
}

// ValidJuz reports whether n names one of the 30 sections.
func ValidJuz(n int) bool { return n >= 1 && n <= JuzCount }

// ValidSurah reports whether id names one of the 114 chapters.
func ValidSurah(id int) bool { return id >= 1 && id <= SurahCount }
