package utils

import (
	"log"
	"strconv"

	"github.com/shirou/gopsutil/v3/cpu"
)

const maxWorkers = 16

// GetOptimalWorkerCount determines the number of parse workers from the
// config value: a positive number is used as is, "auto" uses one worker
// per logical core (at most 16).
func GetOptimalWorkerCount(configValue string) int {
	if manualWorkers, err := strconv.Atoi(configValue); err == nil && manualWorkers > 0 {
		log.Printf("Using manually configured number of workers: %d", manualWorkers)
		return manualWorkers
	}

	if configValue != "auto" {
		log.Printf("WARN: Invalid workers value '%s'. Defaulting to 'auto' mode.", configValue)
	}

	cpuCores, err := cpu.Counts(true)
	if err != nil {
		log.Printf("WARN: Could not detect CPU cores. Falling back to default: %d workers.", 2)
		return 2
	}

	return clampWorkers(cpuCores)
}

func clampWorkers(n int) int {
	if n < 1 {
		return 1
	}
	if n > maxWorkers {
		return maxWorkers
	}
	return n
}
