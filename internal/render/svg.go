package render

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
)

const (
	bioLineWidth = 38
	bioMaxLines  = 4
)

// ErrUnsupportedImage is returned when the profile picture is not a raster or vector image
var ErrUnsupportedImage = errors.New("unsupported profile image type")

var cardTemplate = template.Must(template.New("card").Funcs(template.FuncMap{
	"x":    escape,
	"bioY": func(i int) int { return 570 + i*34 },
}).Parse(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="600" height="840" viewBox="0 0 600 840">
  <defs>
    <linearGradient id="bg" x1="0" y1="0" x2="0" y2="1">
      <stop offset="0" stop-color="#1b1f3b"/>
      <stop offset="1" stop-color="#0052ff"/>
    </linearGradient>
    <clipPath id="avatar"><circle cx="300" cy="250" r="130"/></clipPath>
  </defs>
  <rect width="600" height="840" rx="36" fill="url(#bg)"/>
{{- if .ImageHref}}
  <image x="170" y="120" width="260" height="260" preserveAspectRatio="xMidYMid slice" clip-path="url(#avatar)" href="{{.ImageHref}}"/>
{{- else}}
  <circle cx="300" cy="250" r="130" fill="#ffffff" fill-opacity="0.15"/>
{{- end}}
  <text x="300" y="450" text-anchor="middle" font-family="sans-serif" font-size="44" font-weight="700" fill="#ffffff">{{x .Nickname}}</text>
  <text x="300" y="500" text-anchor="middle" font-family="sans-serif" font-size="26" fill="#c7d2fe">{{x .Role}}</text>
{{- range $i, $line := .BioLines}}
  <text x="300" y="{{bioY $i}}" text-anchor="middle" font-family="sans-serif" font-size="22" fill="#e0e7ff">{{x $line}}</text>
{{- end}}
  <text x="300" y="800" text-anchor="middle" font-family="monospace" font-size="18" fill="#94a3b8">{{x .Address}}</text>
</svg>
`))

type cardView struct {
	Nickname  string
	Role      string
	Address   string
	BioLines  []string
	ImageHref string
}

// BuildSVG renders the card document
func BuildSVG(input CardInput) ([]byte, error) {
	view := cardView{
		Nickname: input.Nickname,
		Role:     input.Role,
		Address:  shortAddress(input.Address),
		BioLines: wrap(input.Bio, bioLineWidth, bioMaxLines),
	}

	if len(input.ProfileImage) > 0 {
		mime := mimetype.Detect(input.ProfileImage)
		if !strings.HasPrefix(mime.String(), "image/") {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, mime.String())
		}
		view.ImageHref = "data:" + mime.String() + ";base64," + base64.StdEncoding.EncodeToString(input.ProfileImage)
	}

	var buf bytes.Buffer
	if err := cardTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("failed to render card template: %w", err)
	}
	return buf.Bytes(), nil
}

func escape(s string) string {
	var buf bytes.Buffer
	// EscapeText only fails on writer errors
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func shortAddress(address string) string {
	if len(address) <= 12 {
		return address
	}
	return address[:6] + "…" + address[len(address)-4:]
}

// wrap splits text into at most maxLines lines of roughly width runes, ellipsizing the rest
func wrap(text string, width int, maxLines int) []string {
	words := strings.Fields(text)
	var lines []string
	var current strings.Builder

	for _, word := range words {
		if current.Len() > 0 && utf8.RuneCountInString(current.String())+1+utf8.RuneCountInString(word) > width {
			lines = append(lines, current.String())
			current.Reset()
			if len(lines) == maxLines {
				lines[maxLines-1] = ellipsize(lines[maxLines-1], width)
				return lines
			}
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

func ellipsize(line string, width int) string {
	runes := []rune(line)
	if len(runes) >= width {
		runes = runes[:width-1]
	}
	return string(runes) + "…"
}
