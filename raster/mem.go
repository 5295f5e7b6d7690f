package raster

import (
	"context"
	"fmt"
	"sync"
)

// Grid pairs a single band of data with its metadata.
type Grid struct {
	Meta Metadata
	Data []float64
}

// MemSource serves band grids from memory, keyed by asset reference.
type MemSource struct {
	Grids map[string]Grid
}

// ReadBand implements the Source interface.
func (s *MemSource) ReadBand(ctx context.Context, href string) (Metadata, []float64, error) {
	grid, ok := s.Grids[href]
	if !ok {
		return Metadata{}, nil, fmt.Errorf("no grid for %s", href)
	}
	data := make([]float64, len(grid.Data))
	copy(data, grid.Data)
	return grid.Meta, data, nil
}

// MemSink collects written band stacks in memory, keyed by path.
type MemSink struct {
	mutex sync.Mutex
	Files map[string]BandStack
}

// WriteStack implements the Sink interface.
func (s *MemSink) WriteStack(ctx context.Context, path string, stack BandStack) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.Files == nil {
		s.Files = map[string]BandStack{}
	}
	s.Files[path] = stack
	return nil
}
