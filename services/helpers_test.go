package services

import (
	"bytes"
	"math"
	"time"
)

// bytesReader wraps a byte slice in a bytes.Reader for use with excelize.OpenReader.
func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}

func floatClose(a, b float64) bool {
	return math.Abs(a-b) < 0.001
}

func boolPtr(b bool) *bool { return &b }

var fixedNow = time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

func testEngine() *Engine {
	cfg := DefaultEngineConfig()
	cfg.Now = func() time.Time { return fixedNow }
	return NewEngine(cfg)
}

// paintProject is scenario A: one item at 2.00 material and 3.00 labor per
// unit over a single 100 sqft surface.
func paintProject() Project {
	return Project{
		ID:           "p1",
		CustomerInfo: CustomerInfo{Name: "Jane Doe", StartDate: "2025-03-01"},
		Categories: []Category{{
			Key:  "interior",
			Name: "Interior",
			WorkItems: []WorkItem{{
				Name:            "Paint walls",
				MeasurementType: string(MeasurementSingleSurface),
				MaterialCost:    Num(2),
				LaborCost:       Num(3),
				Surfaces:        []Surface{{Name: "North wall", Sqft: Num(100)}},
			}},
		}},
		Settings: &Settings{},
	}
}

func hasCode(errs []CalcError, code string) bool {
	return len(ErrorsByCode(errs, code)) > 0
}
