package shapley

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/touchpath/credit"
	"github.com/katalvlaran/touchpath/paths"
)

// Attribute runs the whole Shapley pipeline: build the universe from
// channels, overlay the converting path counts, allocate, then redistribute
// totalConversions proportionally to the raw values and round.
//
// With zero conversions it returns every channel at 0 together with
// credit.ErrNoConversions. An empty channel universe yields an empty
// allocation and credit.ErrNoConversions.
func Attribute(ctx context.Context, counts paths.Counts, channels []string, totalConversions int, opts ...Option) (credit.Allocation, error) {
	u, err := NewUniverse(channels)
	if errors.Is(err, ErrEmptyUniverse) {
		return credit.Allocation{}, fmt.Errorf("shapley: empty universe: %w", credit.ErrNoConversions)
	}
	if err != nil {
		return nil, err
	}
	if totalConversions == 0 || counts.Total() == 0 {
		return credit.Zero(u.Channels()), credit.ErrNoConversions
	}

	ch := NewCharacteristic(u)
	if err = ch.Overlay(counts); err != nil {
		return nil, err
	}
	raw, err := Allocate(ctx, ch, opts...)
	if err != nil {
		return nil, err
	}

	scaled, err := raw.Rescale(float64(totalConversions))
	if errors.Is(err, credit.ErrZeroMass) {
		return credit.Zero(u.Channels()), fmt.Errorf("shapley: %w", credit.ErrNoConversions)
	}
	if err != nil {
		return nil, err
	}

	return scaled.Round(gatherOptions(opts...).precision)
}
