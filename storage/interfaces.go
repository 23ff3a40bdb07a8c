package storage

import "coinafrique-scraper/models"

// ListingWriter is the interface any export backend for cleaned listings must satisfy.
type ListingWriter interface {
	WriteListings(listings []*models.Listing) error
	Close() error
}

// RawListingWriter is the interface for exporting unprocessed listings.
type RawListingWriter interface {
	WriteRaw(listings []*models.RawListing) error
	Close() error
}
