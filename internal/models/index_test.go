package models

import (
	"errors"
	"testing"
)

func validDefinition() *IndexDefinition {
	return &IndexDefinition{
		Name:      "gsoc",
		BaseLevel: 1000.0,
		BaseDate:  "2025-01-01",
		Weights: map[string]float64{
			"GOLD": 0.6,
			"BTC":  0.4,
		},
		BasePrices: map[string]float64{
			"GOLD": 1800.0,
			"BTC":  20000.0,
		},
	}
}

func TestDefinitionValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*IndexDefinition)
		wantErr bool
	}{
		{
			name:   "valid definition",
			mutate: func(d *IndexDefinition) {},
		},
		{
			name:   "weights within tolerance",
			mutate: func(d *IndexDefinition) { d.Weights["GOLD"] = 0.6 + 5e-7 },
		},
		{
			name:    "missing name",
			mutate:  func(d *IndexDefinition) { d.Name = "" },
			wantErr: true,
		},
		{
			name:    "zero base level",
			mutate:  func(d *IndexDefinition) { d.BaseLevel = 0 },
			wantErr: true,
		},
		{
			name:    "weights sum below one",
			mutate:  func(d *IndexDefinition) { d.Weights["GOLD"] = 0.3 },
			wantErr: true,
		},
		{
			name:    "negative weight",
			mutate:  func(d *IndexDefinition) { d.Weights["GOLD"] = -0.6 },
			wantErr: true,
		},
		{
			name: "base price missing for weighted symbol",
			mutate: func(d *IndexDefinition) {
				delete(d.BasePrices, "BTC")
				d.BasePrices["ETH"] = 1000
			},
			wantErr: true,
		},
		{
			name:    "non-positive base price",
			mutate:  func(d *IndexDefinition) { d.BasePrices["GOLD"] = -1 },
			wantErr: true,
		},
		{
			name:    "unknown method",
			mutate:  func(d *IndexDefinition) { d.Method = "volume_weighted" },
			wantErr: true,
		},
		{
			name:   "explicit return based method",
			mutate: func(d *IndexDefinition) { d.Method = MethodReturnBased },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := validDefinition()
			tt.mutate(def)

			err := def.Validate()
			if tt.wantErr && err == nil {
				t.Error("Validate() expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestValidateDefaultsMethod(t *testing.T) {
	def := validDefinition()
	if err := def.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if def.Method != MethodLevelNormalized {
		t.Errorf("Validate() method = %v, want level_normalized default", def.Method)
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    Method
		wantErr bool
	}{
		{in: "", want: MethodLevelNormalized},
		{in: "level_normalized", want: MethodLevelNormalized},
		{in: "return_based", want: MethodReturnBased},
		{in: "volume_weighted", wantErr: true},
		{in: "LEVEL_NORMALIZED", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("method "+tt.in, func(t *testing.T) {
			got, err := ParseMethod(tt.in)

			if tt.wantErr {
				var cerr *ComputationError
				if !errors.As(err, &cerr) || cerr.Reason != ReasonUnsupportedMethod {
					t.Errorf("ParseMethod(%q) error = %v, want unsupported_method", tt.in, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseMethod(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseMethod(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestConfiguredSymbolsSorted(t *testing.T) {
	def := validDefinition()
	def.Weights["AAA"] = 0
	def.BasePrices["AAA"] = 1

	symbols := def.ConfiguredSymbols()
	want := []string{"AAA", "BTC", "GOLD"}
	if len(symbols) != len(want) {
		t.Fatalf("ConfiguredSymbols() = %v, want %v", symbols, want)
	}
	for i := range want {
		if symbols[i] != want[i] {
			t.Errorf("ConfiguredSymbols()[%d] = %v, want %v", i, symbols[i], want[i])
		}
	}
}
