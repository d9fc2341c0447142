package app

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/tilawat/internal/model"
	"github.com/Nixie-Tech-LLC/tilawat/internal/quranapi"
)

func validForm() *Form {
	return &Form{Type: model.TypeSurah, SurahID: 2, ReciterName: "Alafasy", URL: "https://youtu.be/abcdefghijk"}
}

func TestFormValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Form)
		want   error
	}{
		{"valid", func(*Form) {}, nil},
		{"no type", func(f *Form) { f.Type = "" }, ErrNoType},
		{"surah missing", func(f *Form) { f.SurahID = 0 }, ErrNoSurah},
		{"juz missing", func(f *Form) { f.Type = model.TypeJuz }, ErrNoJuz},
		{"juz chosen", func(f *Form) { f.Type = model.TypeJuz; f.JuzID = 30 }, nil},
		{"surah out of range", func(f *Form) { f.SurahID = 500 }, ErrNoSurah},
		{"juz out of range", func(f *Form) { f.Type = model.TypeJuz; f.JuzID = 99 }, ErrNoJuz},
		{"blank reciter", func(f *Form) { f.ReciterName = "  " }, ErrNoReciterName},
		{"empty url", func(f *Form) { f.URL = "" }, ErrBadURL},
		{"ftp url", func(f *Form) { f.URL = "ftp://x" }, ErrBadURL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.modify(f)
			assert.Equal(t, tt.want, f.Validate())
		})
	}
}

func TestFormSubmitValidationSkipsAPI(t *testing.T) {
	api := &fakeAPI{}
	f := &Form{Type: model.TypeSurah, ReciterName: "x", URL: "https://x"}

	_, ok := f.Submit(context.Background(), api)
	assert.False(t, ok)
	assert.Equal(t, FormError, f.State)
	assert.Equal(t, ErrNoSurah.Error(), f.Message)
	assert.Equal(t, "error", f.MessageClass())
	assert.Equal(t, 0, api.count("add"))
}

func TestFormSubmitSuccessClears(t *testing.T) {
	api := &fakeAPI{added: model.Recitation{ID: 9, ReciterName: "Alafasy"}}
	f := validForm()

	rec, ok := f.Submit(context.Background(), api)
	require.True(t, ok)
	assert.Equal(t, 9, rec.ID)
	assert.Equal(t, FormSuccess, f.State)
	assert.Equal(t, msgAdded, f.Message)
	assert.Empty(t, f.Type)
	assert.Empty(t, f.ReciterName)
	assert.Zero(t, f.SurahID)

	require.Len(t, api.addedWith, 1)
	in := api.addedWith[0]
	require.NotNil(t, in.SurahID)
	assert.Equal(t, 2, *in.SurahID)
	assert.Nil(t, in.JuzID)
}

func TestFormSubmitAPIErrorKeepsInput(t *testing.T) {
	api := &fakeAPI{err: &quranapi.Error{Kind: quranapi.KindStatus, Status: http.StatusBadRequest, Message: "Invalid surah_id"}}
	f := validForm()

	_, ok := f.Submit(context.Background(), api)
	assert.False(t, ok)
	assert.Equal(t, FormError, f.State)
	assert.Equal(t, "خطأ: Invalid surah_id", f.Message)
	assert.Equal(t, "Alafasy", f.ReciterName)
	assert.Equal(t, 2, f.SurahID)
}

func TestFormFromValues(t *testing.T) {
	f := FormFromValues(url.Values{
		"type":         {"juz"},
		"juz_id":       {"12"},
		"surah_id":     {"abc"},
		"reciter_name": {"Husary"},
		"url":          {"https://example.com"},
	})
	assert.Equal(t, model.TypeJuz, f.Type)
	assert.Equal(t, 12, f.JuzID)
	assert.Zero(t, f.SurahID)
	assert.NoError(t, f.Validate())
	assert.Len(t, f.JuzNumbers(), model.JuzCount)
}
