package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/nao1215/imgsaveas/internal/model"
	"github.com/nao1215/imgsaveas/internal/settings"
)

// TestPage_Load tests that stored values are shown and defaults fill gaps.
func TestPage_Load(t *testing.T) {
	t.Parallel()

	t.Run("empty store shows defaults", func(t *testing.T) {
		t.Parallel()

		form, err := NewPage(settings.NewMemoryStore()).Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if form.Quality != "0.92" || form.CustomExtension != "" {
			t.Errorf("unexpected form %+v", form)
		}
	})

	t.Run("stored values are shown", func(t *testing.T) {
		t.Parallel()

		store := settings.NewMemoryStore()
		store.SetRaw(model.KeyQuality, json.RawMessage(`0.5`))
		store.SetRaw(model.KeyCustomExtension, json.RawMessage(`"jfif"`))

		form, err := NewPage(store).Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if form.Quality != "0.5" || form.CustomExtension != "jfif" {
			t.Errorf("unexpected form %+v", form)
		}
	})

	t.Run("injected defaults fill missing keys", func(t *testing.T) {
		t.Parallel()

		store := settings.NewMemoryStore()
		store.SetRaw(model.KeyQuality, json.RawMessage(`0.5`))

		page := NewPage(store, WithDefaults(model.SettingsRecord{Quality: 0.7, CustomExtension: "jpe"}))
		form, err := page.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if form.Quality != "0.5" || form.CustomExtension != "jpe" {
			t.Errorf("unexpected form %+v", form)
		}
	})

	t.Run("closed store", func(t *testing.T) {
		t.Parallel()

		store := settings.NewMemoryStore()
		store.Close()
		if _, err := NewPage(store).Load(context.Background()); !errors.Is(err, settings.ErrStoreClosed) {
			t.Errorf("expected ErrStoreClosed, got %v", err)
		}
	})
}

// TestPage_Submit tests coercion of form input.
func TestPage_Submit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		form Form
		want model.SettingsRecord
	}{
		{name: "valid input", form: Form{Quality: "0.8", CustomExtension: "jfif"}, want: model.SettingsRecord{Quality: 0.8, CustomExtension: "jfif"}},
		{name: "quality above range", form: Form{Quality: "5"}, want: model.SettingsRecord{Quality: 1}},
		{name: "quality below range", form: Form{Quality: "0.01"}, want: model.SettingsRecord{Quality: 0.1}},
		{name: "non-numeric quality", form: Form{Quality: "abc"}, want: model.SettingsRecord{Quality: 0.92}},
		{name: "blank quality", form: Form{Quality: ""}, want: model.SettingsRecord{Quality: 0.92}},
		{name: "dirty extension", form: Form{Quality: "0.9", CustomExtension: " .JP*G "}, want: model.SettingsRecord{Quality: 0.9, CustomExtension: "jpg"}},
		{name: "extension of only junk", form: Form{Quality: "0.9", CustomExtension: "***"}, want: model.SettingsRecord{Quality: 0.9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := settings.NewMemoryStore()
			page := NewPage(store)

			got, err := page.Submit(context.Background(), tt.form)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("returned %+v, want %+v", got, tt.want)
			}

			stored, err := store.Get(context.Background(), model.SettingsRecord{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if stored != tt.want {
				t.Errorf("stored %+v, want %+v", stored, tt.want)
			}
		})
	}
}

// TestPage_SubmitStoreFailure tests that storage errors reach the caller and
// no confirmation is shown.
func TestPage_SubmitStoreFailure(t *testing.T) {
	t.Parallel()

	store := settings.NewMemoryStore()
	store.Close()
	page := NewPage(store)

	if _, err := page.Submit(context.Background(), Form{Quality: "0.5"}); !errors.Is(err, settings.ErrStoreClosed) {
		t.Errorf("expected ErrStoreClosed, got %v", err)
	}
	if page.Status().Text() != "" {
		t.Errorf("expected no status, got %q", page.Status().Text())
	}
}

// TestPage_StatusMessage tests the localized confirmation and its auto-clear.
func TestPage_StatusMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		lang language.Tag
		want string
	}{
		{name: "english", lang: language.English, want: "Saved!"},
		{name: "italian", lang: language.Italian, want: "Salvato!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			changes := make(chan string, 4)
			page := NewPage(settings.NewMemoryStore(),
				WithLanguage(tt.lang),
				WithStatusDelay(20*time.Millisecond),
				WithStatusListener(func(text string) { changes <- text }),
			)

			if _, err := page.Submit(context.Background(), Form{Quality: "0.5"}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := <-changes; got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}

			select {
			case got := <-changes:
				if got != "" {
					t.Errorf("expected status to clear, got %q", got)
				}
			case <-time.After(2 * time.Second):
				t.Fatal("status was not cleared")
			}
			if page.Status().Text() != "" {
				t.Errorf("expected empty status, got %q", page.Status().Text())
			}
		})
	}
}

// TestStatus_NewerMessageRestartsTimer tests that an old timer does not clear
// a newer message.
func TestStatus_NewerMessageRestartsTimer(t *testing.T) {
	t.Parallel()

	s := NewStatus(50*time.Millisecond, nil)
	s.Show("first")
	time.Sleep(30 * time.Millisecond)
	s.Show("second")
	time.Sleep(30 * time.Millisecond)

	if got := s.Text(); got != "second" {
		t.Errorf("expected second message to still be shown, got %q", got)
	}
}

// TestStatusDelay pins the visible duration of a status message.
func TestStatusDelay(t *testing.T) {
	t.Parallel()

	if StatusDelay != 1800*time.Millisecond {
		t.Errorf("expected 1.8s, got %v", StatusDelay)
	}
}
