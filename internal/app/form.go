package app

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/tilawat/internal/model"
	"github.com/Nixie-Tech-LLC/tilawat/internal/quranapi"
)

type FormState int

const (
	FormIdle FormState = iota
	FormSubmitting
	FormSuccess
	FormError
)

const msgAdded = "تمت إضافة التلاوة بنجاح!"

var (
	ErrNoType        = errors.New("يرجى اختيار النوع (سورة أو جزء).")
	ErrNoSurah       = errors.New("يرجى اختيار السورة.")
	ErrNoJuz         = errors.New("يرجى اختيار الجزء.")
	ErrNoReciterName = errors.New("يرجى إدخال اسم القارئ.")
	ErrBadURL        = errors.New("يرجى إدخال رابط صحيح يبدأ بـ http أو https.")
)

// Form is the add-recitation form. SurahID and JuzID are zero when unset.
type Form struct {
	Type        string
	SurahID     int
	SurahQuery  string
	JuzID       int
	ReciterName string
	URL         string

	State   FormState
	Message string
}

// FormFromValues reads a submitted form. Unparseable numbers count as unset.
func FormFromValues(v url.Values) *Form {
	f := &Form{
		Type:        strings.TrimSpace(v.Get("type")),
		SurahQuery:  v.Get("surah_query"),
		ReciterName: v.Get("reciter_name"),
		URL:         v.Get("url"),
	}
	f.SurahID, _ = strconv.Atoi(strings.TrimSpace(v.Get("surah_id")))
	f.JuzID, _ = strconv.Atoi(strings.TrimSpace(v.Get("juz_id")))
	return f
}

// Validate returns the first rule the form breaks.
func (f *Form) Validate() error {
	switch f.Type {
	case model.TypeSurah:
		if !model.ValidSurah(f.SurahID) {
			return ErrNoSurah
		}
	case model.TypeJuz:
		if !model.ValidJuz(f.JuzID) {
			return ErrNoJuz
		}
	default:
		return ErrNoType
	}
	if strings.TrimSpace(f.ReciterName) == "" {
		return ErrNoReciterName
	}
	if u := strings.TrimSpace(f.URL); u == "" || !strings.HasPrefix(u, "http") {
		return ErrBadURL
	}
	return nil
}

func (f *Form) request() model.NewRecitation {
	in := model.NewRecitation{
		Type:        f.Type,
		ReciterName: strings.TrimSpace(f.ReciterName),
		URL:         strings.TrimSpace(f.URL),
	}
	if f.Type == model.TypeSurah {
		id := f.SurahID
		in.SurahID = &id
	} else {
		n := f.JuzID
		in.JuzID = &n
	}
	return in
}

// Submit validates the form and sends it. On success the fields are
// cleared; on failure they are kept so the visitor can correct them.
func (f *Form) Submit(ctx context.Context, api API) (model.Recitation, bool) {
	if err := f.Validate(); err != nil {
		f.State = FormError
		f.Message = err.Error()
		return model.Recitation{}, false
	}

	f.State = FormSubmitting
	f.Message = ""
	rec, err := api.AddRecitation(ctx, f.request())
	if err != nil {
		log.Error().Err(err).Str("type", f.Type).Msg("error adding recitation")
		f.State = FormError
		msg := quranapi.MsgUnknown
		if apiErr, ok := quranapi.AsError(err); ok {
			msg = apiErr.Message
		}
		f.Message = "خطأ: " + msg
		return model.Recitation{}, false
	}

	*f = Form{State: FormSuccess, Message: msgAdded}
	return rec, true
}

func (f *Form) MessageClass() string {
	switch f.State {
	case FormSuccess:
		return "success"
	case FormError:
		return "error"
	}
	return ""
}

// JuzNumbers lists the selectable sections.
func (f *Form) JuzNumbers() []int { return juzNumbers() }

func juzNumbers() []int {
	out := make([]int, model.JuzCount)
	for i := range out {
		out[i] = i + 1
	}
	return out
}
