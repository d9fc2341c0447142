package app

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/tilawat/internal/model"
)

func sampleSurahs() []model.Surah {
	return []model.Surah{
		{ID: 1, Number: 1, Name: "Al-Fatihah", NameArabic: "الفاتحة"},
		{ID: 2, Number: 2, Name: "Al-Baqarah", NameArabic: "البقرة"},
		{ID: 112, Number: 112, Name: "Al-Ikhlas", NameArabic: "الإخلاص"},
	}
}

func TestFilterSurahs(t *testing.T) {
	all := sampleSurahs()

	got := FilterSurahs(all, "  BAQ ", MaxSuggestions)
	require.Len(t, got, 1)
	assert.Equal(t, SurahOption{ID: 2, Label: "2. Al-Baqarah (البقرة)"}, got[0])

	got = FilterSurahs(all, "الإخلاص", MaxSuggestions)
	require.Len(t, got, 1)
	assert.Equal(t, 112, got[0].ID)

	assert.Empty(t, FilterSurahs(all, "   ", MaxSuggestions))
	assert.Len(t, FilterSurahs(all, "al-", MaxSuggestions), 3)
}

func TestFilterSurahsLimit(t *testing.T) {
	var all []model.Surah
	for i := 1; i <= 20; i++ {
		all = append(all, model.Surah{ID: i, Number: i, Name: fmt.Sprintf("Surah %d", i)})
	}
	got := FilterSurahs(all, "surah", MaxSuggestions)
	require.Len(t, got, MaxSuggestions)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, 10, got[9].ID)
}

func TestCatalogLoadsOnce(t *testing.T) {
	api := &fakeAPI{surahs: sampleSurahs()}
	c := NewCatalog(api)
	ctx := context.Background()

	got, err := c.Search(ctx, "fat")
	require.NoError(t, err)
	require.Len(t, got, 1)

	_, err = c.Search(ctx, "ikh")
	require.NoError(t, err)
	assert.Equal(t, 1, api.count("surahs"))

	require.NoError(t, c.Refresh(ctx))
	assert.Equal(t, 2, api.count("surahs"))

	got, err = c.Search(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 2, api.count("surahs"))
}

func TestCatalogsPerVisitor(t *testing.T) {
	cs := NewCatalogs(&fakeAPI{}, 8, time.Minute)
	a := cs.For("a")
	assert.Same(t, a, cs.For("a"))
	assert.NotSame(t, a, cs.For("b"))
}
