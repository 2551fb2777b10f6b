package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"serverlist-api/core/domain"
	coreerrors "serverlist-api/core/errors"
)

func validContent() string {
	images := "![spawn](https://img.example.com/spawn.png) ![arena](https://img.example.com/arena.jpg)\n\n"
	return images + strings.Repeat("Un server survival con economia e minigiochi. ", 8)
}

func validDraft() domain.ServerDraft {
	return domain.ServerDraft{
		Title:   "Faction Italia PvP",
		Content: validContent(),
		IP:      "play.factionitalia.it",
		Tags:    []string{"survival", "pvp"},
		Cover:   "https://img.example.com/cover.png",
	}
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	errs, ok := coreerrors.AsValidationErrors(err)
	require.True(t, ok, "expected validation errors, got %v", err)
	return errs.Fields()
}

func TestValidateDraft_Valid(t *testing.T) {
	v := New()
	assert.NoError(t, v.ValidateDraft(validDraft()))
}

func TestValidateDraft_EmptyDraftReportsEveryRequiredField(t *testing.T) {
	v := New()

	fields := fieldErrors(t, v.ValidateDraft(domain.ServerDraft{}))

	assert.Equal(t, map[string]string{
		"title":   "Devi aggiungere il nome del server.",
		"content": "Devi aggiungere una descrizione.",
		"ip":      "Devi aggiungere l'ip del server.",
		"cover":   "Devi aggiungere un'immagine per il tuo server.",
	}, fields)
}

func TestValidateDraft_Rules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(d *domain.ServerDraft)
		field   string
		message string
	}{
		{
			name:    "title too short",
			mutate:  func(d *domain.ServerDraft) { d.Title = "Corto" },
			field:   "title",
			message: "Il titolo deve essere almeno 10 caratteri.",
		},
		{
			name:    "title too long",
			mutate:  func(d *domain.ServerDraft) { d.Title = strings.Repeat("a", 201) },
			field:   "title",
			message: "Il titolo deve essere meno di 200 caratteri.",
		},
		{
			name:    "content too short",
			mutate:  func(d *domain.ServerDraft) { d.Content = "![a](https://x.it/a.png) ![b](https://x.it/b.png)" },
			field:   "content",
			message: "La descrizione deve essere almeno 280 caratteri.",
		},
		{
			name:    "content too long",
			mutate:  func(d *domain.ServerDraft) { d.Content = validContent() + strings.Repeat("x", 10000) },
			field:   "content",
			message: "La descrizione deve essere meno di 10000 caratteri.",
		},
		{
			name: "content with one image",
			mutate: func(d *domain.ServerDraft) {
				d.Content = "![a](https://x.it/a.png)\n" + strings.Repeat("testo ", 60)
			},
			field:   "content",
			message: "Assicurati di aggiungere almeno due immagini alla tua descrizione. ![](<immagine>)",
		},
		{
			name: "content images over http",
			mutate: func(d *domain.ServerDraft) {
				d.Content = "![a](http://x.it/a.png) ![b](http://x.it/b.png)\n" + strings.Repeat("testo ", 60)
			},
			field:   "content",
			message: "Assicurati di aggiungere almeno due immagini alla tua descrizione. ![](<immagine>)",
		},
		{
			name:    "ip with bad port",
			mutate:  func(d *domain.ServerDraft) { d.IP = "play.example.it:70000" },
			field:   "ip",
			message: "L'ip del server non è valido.",
		},
		{
			name:    "ip single label",
			mutate:  func(d *domain.ServerDraft) { d.IP = "server" },
			field:   "ip",
			message: "L'ip del server non è valido.",
		},
		{
			name:    "cover not an image",
			mutate:  func(d *domain.ServerDraft) { d.Cover = "https://img.example.com/cover.webp" },
			field:   "cover",
			message: "Il link non è un'immagine valida.",
		},
		{
			name:    "cover over http",
			mutate:  func(d *domain.ServerDraft) { d.Cover = "http://img.example.com/cover.png" },
			field:   "cover",
			message: "Il link non è un'immagine valida.",
		},
		{
			name: "too many tags",
			mutate: func(d *domain.ServerDraft) {
				d.Tags = strings.Split("a,b,c,d,e,f,g,h,i,j,k", ",")
			},
			field:   "tags",
			message: "Puoi scegliere al massimo 10 tag.",
		},
		{
			name:    "empty tag",
			mutate:  func(d *domain.ServerDraft) { d.Tags = []string{"pvp", ""} },
			field:   "tags",
			message: "Tag non valido.",
		},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)

			fields := fieldErrors(t, v.ValidateDraft(d))
			assert.Len(t, fields, 1)
			assert.Equal(t, tt.message, fields[tt.field])
		})
	}
}

func TestValidateDraft_LengthCountsCharacters(t *testing.T) {
	v := New()
	d := validDraft()
	// 10 runes, 20 bytes
	d.Title = strings.Repeat("è", 10)

	assert.NoError(t, v.ValidateDraft(d))
}

func TestValidateDraft_AcceptedAddresses(t *testing.T) {
	v := New()
	for _, ip := range []string{"127.0.0.1", "127.0.0.1:25565", "mc.example.it", "mc.example.it:19132", "[::1]:25565", "::1", "localhost"} {
		d := validDraft()
		d.IP = ip
		assert.NoError(t, v.ValidateDraft(d), ip)
	}
}

func TestCountImages(t *testing.T) {
	assert.Equal(t, 0, CountImages("nessuna immagine"))
	assert.Equal(t, 1, CountImages("![x](https://a.it/x.gif)"))
	assert.Equal(t, 2, CountImages("![x](https://a.it/x.svg) and ![](https://a.it/y.jpg)"))
	assert.Equal(t, 0, CountImages("![x](https://a.it/x.bmp)"))
}

func TestIsCoverURL(t *testing.T) {
	assert.True(t, IsCoverURL("https://i.imgur.com/abc.png"))
	assert.True(t, IsCoverURL("https://cdn.example.com/a/b-c_d.jpg"))
	assert.False(t, IsCoverURL("https://cdn.example.com/a.png?x=1"))
	assert.False(t, IsCoverURL("ftp://cdn.example.com/a.png"))
}
