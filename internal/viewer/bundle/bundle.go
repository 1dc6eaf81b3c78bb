// Package bundle defines the model bundle the viewer consumes and the client
// for the review server that serves it. The server side (storage backends,
// share-token issuance, upload processing) is not part of the viewer.
package bundle

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrNotFound is returned when the share token resolves to no stored model.
var ErrNotFound = errors.New("bundle: model not found")

// Background is the viewer's clear-color theme.
type Background int

const (
	BackgroundGray Background = iota
	BackgroundWhite
	BackgroundBlack
)

// ParseBackground maps a query-parameter value to a theme. Unknown values
// fall back to gray.
func ParseBackground(s string) Background {
	switch strings.ToLower(s) {
	case "white":
		return BackgroundWhite
	case "black":
		return BackgroundBlack
	default:
		return BackgroundGray
	}
}

func (b Background) String() string {
	switch b {
	case BackgroundWhite:
		return "white"
	case BackgroundBlack:
		return "black"
	default:
		return "gray"
	}
}

// StoredAnnotation is a server-persisted annotation as returned by the store.
// Positions are in normalized object space.
type StoredAnnotation struct {
	ID        uint64     `json:"id"`
	Position  [3]float32 `json:"position"`
	Text      string     `json:"text"`
	Completed bool       `json:"completed"`
}

// ModelBundle is everything one viewer session needs, fetched once per load
// and immutable afterwards.
type ModelBundle struct {
	Name             string
	OBJText          string
	MTLText          string
	Textures         map[string][]byte
	Background       Background
	Token            string
	Annotations      []StoredAnnotation
	RealHeightMeters float64
}

// Params are the display parameters read from the share link's addressable
// state at load time.
type Params struct {
	Token      string
	Background Background
}

// ParseShareURL extracts the model token ("m") and background theme ("bg")
// from a share link's query parameters.
func ParseShareURL(raw string) (Params, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Params{}, fmt.Errorf("share url: %w", err)
	}
	q := u.Query()

	token := q.Get("m")
	if token == "" {
		return Params{}, errors.New("share url: missing model token parameter")
	}

	return Params{
		Token:      token,
		Background: ParseBackground(q.Get("bg")),
	}, nil
}
