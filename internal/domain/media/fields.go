package media

// Raw field names of the media index.
const (
	RawTitle        = "title"
	RawDescription  = "description"
	RawPhotographer = "fotografen"
	RawDate         = "datum"
	RawText         = "suchtext"
	RawBildnummer   = "bildnummer"
	RawDB           = "db"
	RawHeight       = "hoehe"
	RawWidth        = "breite"
)

// Keys of Item.AdditionalData with a fixed meaning.
const (
	KeyScore      = "score"
	KeyBildnummer = RawBildnummer
	KeyDB         = RawDB
	KeyHeight     = RawHeight
	KeyWidth      = RawWidth
)

// Defaults applied when the raw document lacks a value.
const (
	DefaultDB           = "st"
	UnknownPhotographer = "Unknown"
	Untitled            = "Untitled"
)

// Promoted reports whether a raw field is lifted to the top level of an Item
// and therefore excluded from AdditionalData.
func Promoted(field string) bool {
	switch field {
	case RawTitle, RawDescription, RawPhotographer, RawDate:
		return true
	}
	return false
}
