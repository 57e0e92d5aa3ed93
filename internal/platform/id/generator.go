package id

import (
	"github.com/google/uuid"
)

// Generator creates opaque IDs for matches the feed did not identify and for
// request correlation.
type Generator interface {
	NewID() string
}

type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// Static always returns the same value; handy when output must be deterministic.
type Static string

func (s Static) NewID() string {
	return string(s)
}
