package app

import (
	"context"
	"html/template"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/tilawat/internal/likes"
	"github.com/Nixie-Tech-LLC/tilawat/internal/model"
	"github.com/Nixie-Tech-LLC/tilawat/internal/render"
)

type fakeAPI struct {
	mu sync.Mutex

	juz       model.JuzDetail
	surah     model.SurahDetail
	surahs    []model.Surah
	random    model.Recitation
	mostLiked []model.Recitation
	search    []model.Recitation
	added     model.Recitation
	like      model.LikeResult
	err       error
	likeGate  chan struct{}

	calls     map[string]int
	addedWith []model.NewRecitation
}

func (f *fakeAPI) called(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) Juz(context.Context, int) (model.JuzDetail, error) {
	f.called("juz")
	return f.juz, f.err
}

func (f *fakeAPI) Surah(context.Context, int) (model.SurahDetail, error) {
	f.called("surah")
	return f.surah, f.err
}

func (f *fakeAPI) Surahs(context.Context) ([]model.Surah, error) {
	f.called("surahs")
	return f.surahs, f.err
}

func (f *fakeAPI) Random(context.Context) (model.Recitation, error) {
	f.called("random")
	return f.random, f.err
}

func (f *fakeAPI) MostLiked(context.Context) ([]model.Recitation, error) {
	f.called("mostLiked")
	return f.mostLiked, f.err
}

func (f *fakeAPI) Search(context.Context, string) ([]model.Recitation, error) {
	f.called("search")
	return f.search, f.err
}

func (f *fakeAPI) AddRecitation(_ context.Context, in model.NewRecitation) (model.Recitation, error) {
	f.called("add")
	f.mu.Lock()
	f.addedWith = append(f.addedWith, in)
	f.mu.Unlock()
	return f.added, f.err
}

func (f *fakeAPI) Like(context.Context, string) (model.LikeResult, error) {
	f.called("like")
	if f.likeGate != nil {
		<-f.likeGate
	}
	return f.like, f.err
}

type recordingView struct {
	mu      sync.Mutex
	renders []template.HTML
}

func (v *recordingView) Render(content template.HTML) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.renders = append(v.renders, content)
}

func (v *recordingView) last() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.renders) == 0 {
		return ""
	}
	return string(v.renders[len(v.renders)-1])
}

type recordingMirror struct {
	mu       sync.Mutex
	fragment string
	sets     int
}

func (m *recordingMirror) Fragment() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fragment
}

func (m *recordingMirror) SetFragment(f string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fragment = f
	m.sets++
}

func newTestRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	r, err := render.New()
	require.NoError(t, err)
	return r
}

func newTestStore() *likes.Store {
	return likes.NewRepository(likes.NewMemoryBackend()).For("visitor")
}

func intPtr(n int) *int { return &n }
