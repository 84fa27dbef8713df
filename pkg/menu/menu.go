package menu

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// ErrInvalidItem is returned by Validate when the tree breaks an item invariant.
var ErrInvalidItem = errors.New("invalid menu item")

// Validate checks that every key is set and unique among its siblings
// and that group items only carry the Placeholder URL.
func Validate(items []Item) error {
	seen := make(map[string]struct{}, len(items))

	for _, item := range items {
		if item.Key == "" {
			return fmt.Errorf("%w: empty key (label %q)", ErrInvalidItem, item.Label)
		}

		if _, ok := seen[item.Key]; ok {
			return fmt.Errorf("%w: duplicate key %q", ErrInvalidItem, item.Key)
		}
		seen[item.Key] = struct{}{}

		if item.IsGroup() && item.URL != Placeholder {
			return fmt.Errorf("%w: group %q has url %q", ErrInvalidItem, item.Key, item.URL)
		}

		if err := Validate(item.Items); err != nil {
			return fmt.Errorf("%s: %w", item.Key, err)
		}
	}

	return nil
}

// Find returns the top-level item with the given key.
func Find(items []Item, key string) (Item, bool) {
	for _, item := range items {
		if item.Key == key {
			return item, true
		}
	}

	return Item{}, false
}

// WithOverrides returns a copy of items in which every top-level item whose key
// has an entry in overrides carries that content as its Override. The item keeps
// its key, label and URL so the section link survives the override.
// The input slice is never modified.
func WithOverrides(items []Item, overrides map[string]string) []Item {
	out := make([]Item, len(items))
	copy(out, items)

	for i := range out {
		if content, ok := overrides[out[i].Key]; ok {
			out[i].Override = content
		}
	}

	return out
}

// Handler returns an HTTP handler that responds with the menu tree built by fn as JSON.
func Handler(fn func(r *http.Request) ([]Item, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Info("handling menu request",
			"method", r.Method,
			"url", r.URL.Path,
		)

		items, err := fn(r)
		if err != nil {
			slog.Error("failed to build menu", "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		if items == nil {
			items = []Item{}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(items); err != nil {
			slog.Error("failed to encode menu", "error", err)
			return
		}

		slog.Info("menu response sent",
			"method", r.Method,
			"url", r.URL.Path,
			"status", http.StatusOK,
		)
	})
}
