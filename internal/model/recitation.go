package model

import (
	"errors"
	"fmt"
	"strings"
)

// Recitation is a community-submitted link attributed to a reciter.
type Recitation struct {
	ID          int       `json:"id"`
	ReciterName string    `json:"reciter_name"`
	URL         string    `json:"url"`
	Likes       *int      `json:"likes"`
	SurahID     *int      `json:"surah_id,omitempty"`
	JuzID       *int      `json:"juz_id,omitempty"`
	Surah       *SurahRef `json:"surah,omitempty"`
}

// SurahRef is the short chapter reference embedded in a recitation.
type SurahRef struct {
	ID         int    `json:"id"`
	Number     int    `json:"number"`
	Name       string `json:"name"`
	NameArabic string `json:"name_arabic,omitempty"`
}

// ContextLabel names the chapter or section a recitation belongs to.
// It is empty when the recitation carries neither.
func (r Recitation) ContextLabel() string {
	if r.Surah != nil {
		return "سورة " + r.Surah.Name
	}
	if r.JuzID != nil {
		return fmt.Sprintf("الجزء %d", *r.JuzID)
	}
	return ""
}

func (r Recitation) Validate() error {
	if r.ID <= 0 {
		return errors.New("recitation: missing id")
	}
	if strings.TrimSpace(r.URL) == "" {
		return fmt.Errorf("recitation %d: missing url", r.ID)
	}
	if r.Likes == nil {
		return fmt.Errorf("recitation %d: missing likes", r.ID)
	}
	if *r.Likes < 0 {
		return fmt.Errorf("recitation %d: negative likes", r.ID)
	}
	return nil
}

// LikeCount is the like count, zero when absent.
func (r Recitation) LikeCount() int {
	if r.Likes == nil {
		return 0
	}
	return *r.Likes
}

// Recitation types accepted by POST /recitations.
const (
	TypeSurah = "surah"
	TypeJuz   = "juz"
)

// NewRecitation is the request body for adding a recitation.
type NewRecitation struct {
	Type        string `json:"type"`
	SurahID     *int   `json:"surah_id"`
	JuzID       *int   `json:"juz_id"`
	ReciterName string `json:"reciter_name"`
	URL         string `json:"url"`
}

// LikeResult is the part of the like response the client relies on.
// Likes is a pointer so a payload without the field can be told apart from zero.
type LikeResult struct {
	ID    int  `json:"id"`
	Likes *int `json:"likes"`
}

func (l LikeResult) Validate() error {
	if l.ID <= 0 {
		return errors.New("like: missing id")
	}
	if l.Likes == nil {
		return fmt.Errorf("like %d: missing likes", l.ID)
	}
	if *l.Likes < 0 {
		return fmt.Errorf("like %d: negative likes", l.ID)
	}
	return nil
}

func validateRecitations(list []Recitation) error {
	for _, r := range list {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// RecitationList is a ranked or searched list of recitations.
type RecitationList []Recitation

func (l RecitationList) Validate() error {
	return validateRecitations(l)
}
