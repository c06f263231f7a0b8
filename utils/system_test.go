package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetMemUsage(t *testing.T) {
	mu := GetMemUsage()
	assert.GreaterOrEqual(t, mu.TotalAlloc, mu.Alloc)
	assert.Equal(t, "Alloc = 1 MiB TotalAlloc = 2 MiB Sys = 3 MiB NumGC = 4",
		MemUsage{Alloc: 1, TotalAlloc: 2, Sys: 3, NumGC: 4}.String())
}
