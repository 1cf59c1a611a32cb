package catalog

import (
	"strings"
	"testing"
	"time"

	"knowledge-search/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func TestNewDefaultStore(t *testing.T) {
	store := NewDefaultStore(testNow)
	all := store.All()

	assert.Len(t, all, 100+19)

	for _, id := range []string{"1", "100", "1001", "1004", "2001", "2009", "2015"} {
		_, ok := store.Get(id)
		assert.True(t, ok, id)
	}
	_, ok := store.Get("2016")
	assert.False(t, ok)
}

func TestGenerateArticles_Deterministic(t *testing.T) {
	a := GenerateArticles(testNow, DefaultSeed)
	b := GenerateArticles(testNow, DefaultSeed)
	assert.Equal(t, a, b)

	c := GenerateArticles(testNow, DefaultSeed+1)
	assert.Equal(t, models.ArticleIDs(a), models.ArticleIDs(c))
	differs := false
	for i := range a {
		if a[i].ViewCount != c[i].ViewCount {
			differs = true
			break
		}
	}
	assert.True(t, differs)
}

func TestGenerateArticles_Shape(t *testing.T) {
	articles := GenerateArticles(testNow, DefaultSeed)
	require.Len(t, articles, 100)

	first := articles[0]
	assert.Equal(t, "1", first.ID)
	assert.Equal(t, "Resetting Password", first.Title)
	assert.Equal(t, models.CategoryAccount, first.Category)
	assert.Equal(t, models.AccessPublic, first.AccessLevel)
	assert.Equal(t, []string{"account", "guide", "help", "resetting"}, first.Tags)
	assert.True(t, strings.HasPrefix(first.Content, "How to safely reset"))

	tenth := articles[9]
	assert.Equal(t, "Resetting Password - Part 2", tenth.Title)
	assert.Equal(t, models.StatusDraft, tenth.Status)

	nineteenth := articles[18]
	assert.Equal(t, "Resetting Password - Part 3", nineteenth.Title)

	for _, a := range articles {
		assert.GreaterOrEqual(t, a.RelevanceScore, 60)
		assert.Less(t, a.RelevanceScore, 100)
		assert.GreaterOrEqual(t, a.ViewCount, 100)
		assert.False(t, a.CreatedDate.After(testNow))
		if a.AccessLevel == models.AccessRestricted {
			assert.Contains(t, a.Tags, "internal")
		}
	}

	// Security is the fourth category: ids 61..80
	sec3 := articles[62]
	assert.Equal(t, models.CategorySecurity, sec3.Category)
	assert.Contains(t, sec3.Tags, "confidential")
}

func TestDemoArticles_Timeline(t *testing.T) {
	store := NewDefaultStore(testNow)

	a1001, _ := store.Get("1001")
	assert.Equal(t, testNow.AddDate(0, 0, -1), a1001.LastUpdated)
	assert.Equal(t, testNow.AddDate(0, 0, -5), a1001.CreatedDate)

	a2001, _ := store.Get("2001")
	assert.Equal(t, testNow.AddDate(0, 0, -3), a2001.LastUpdated)

	a1002, _ := store.Get("1002")
	assert.Equal(t, testNow.AddDate(0, 0, -1), a1002.CreatedDate)
	assert.Equal(t, testNow, a1002.LastUpdated)

	a2002, _ := store.Get("2002")
	assert.Equal(t, testNow.AddDate(0, 0, -20), a2002.CreatedDate)
	assert.Equal(t, testNow.AddDate(0, 0, -19), a2002.LastUpdated)
}

func TestLookup(t *testing.T) {
	store := NewDefaultStore(testNow)
	got := Lookup(store, []string{"2001", "missing", "1001"})
	assert.Equal(t, []string{"2001", "1001"}, models.ArticleIDs(got))
}

func TestNewMemoryStore_IgnoresDuplicates(t *testing.T) {
	store := NewMemoryStore([]models.Article{{ID: "a", Title: "first"}, {ID: "a", Title: "second"}})
	assert.Len(t, store.All(), 1)
	a, _ := store.Get("a")
	assert.Equal(t, "first", a.Title)
}
