// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package service

import (
	"fmt"
	"path"
)

// ImageSource says which link of the resolution chain produced an image.
type ImageSource int

const (
	SourceDefault ImageSource = iota
	SourceCategory
	SourceChurchSuite
)

func (s ImageSource) String() string {
	switch s {
	case SourceChurchSuite:
		return "churchsuite"
	case SourceCategory:
		return "category"
	default:
		return "default"
	}
}

// Image is a resolved image. ChurchSuite images carry a URL that still has to
// be downloaded; category and default images are local assets (Path) or
// existing WordPress media (MediaID).
type Image struct {
	Source   ImageSource
	URL      string
	Filename string
	Path     string
	MediaID  int
}

// Uploadable reports whether the image is event specific and has to be
// uploaded to the target, as opposed to an asset the target already has.
func (i Image) Uploadable() bool {
	return i.Source == SourceChurchSuite
}

func (i Image) String() string {
	switch {
	case i.Source == SourceChurchSuite:
		return fmt.Sprintf("%s:%s", i.Source, i.Filename)
	case i.MediaID > 0:
		return fmt.Sprintf("%s:media/%d", i.Source, i.MediaID)
	default:
		return fmt.Sprintf("%s:%s", i.Source, i.Path)
	}
}

// churchSuiteImage returns the event image if the record carries one.
func (s *Service) churchSuiteImage() (Image, bool) {
	u := s.fields.String(FieldChurchSuiteImageURL)
	if u == "" {
		return Image{}, false
	}
	name := s.fields.String(FieldChurchSuiteImageFilename)
	if name == "" {
		name = path.Base(u)
	}
	return Image{Source: SourceChurchSuite, URL: u, Filename: name}, true
}

// Thumbnail resolves the video thumbnail: event image, then category
// thumbnail, then the built-in default. The chain is total.
func (s *Service) Thumbnail() Image {
	if img, ok := s.churchSuiteImage(); ok {
		return img
	}
	if p := s.override.Thumbnail; p != "" {
		return Image{Source: SourceCategory, Path: p, Filename: path.Base(p)}
	}
	p := s.defaults.Thumbnail
	return Image{Source: SourceDefault, Path: p, Filename: path.Base(p)}
}

// FeaturedImage resolves the WordPress featured image: event image, then the
// category's media id, then the built-in default media id.
func (s *Service) FeaturedImage() Image {
	if img, ok := s.churchSuiteImage(); ok {
		return img
	}
	if id := s.override.FeaturedImageID; id > 0 {
		return Image{Source: SourceCategory, MediaID: id}
	}
	return Image{Source: SourceDefault, MediaID: s.defaults.FeaturedMediaID}
}
