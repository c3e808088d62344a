package config_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/mkrupp/todoshell/internal/infra/config"
)

type testConfig struct {
	EnvConfig

	StringValue string `env:"STRING_VALUE" default:"default"`
	IntValue    int    `env:"INT_VALUE" default:"42"`
	BoolValue   bool   `env:"BOOL_VALUE" default:"true"`
	NoEnvTag    string
	Nested      testNestedConfig `envPrefix:"NESTED_"`
}

type testNestedConfig struct {
	Value string `env:"VALUE" default:"nested-default"`
}

//nolint:paralleltest
func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		envVars map[string]string
		want    testConfig
	}{
		{
			name:    "uses default values when env vars not set",
			prefix:  "",
			envVars: map[string]string{},
			want: testConfig{
				StringValue: "default",
				IntValue:    42,
				BoolValue:   true,
				Nested:      testNestedConfig{Value: "nested-default"},
			},
		},
		{
			name:   "reads env vars without prefix",
			prefix: "",
			envVars: map[string]string{
				"STRING_VALUE": "from-env",
				"INT_VALUE":    "7",
				"BOOL_VALUE":   "false",
			},
			want: testConfig{
				StringValue: "from-env",
				IntValue:    7,
				BoolValue:   false,
				Nested:      testNestedConfig{Value: "nested-default"},
			},
		},
		{
			name:   "namespace prefixes every variable",
			prefix: "APP",
			envVars: map[string]string{
				"APP_STRING_VALUE": "namespaced",
				"APP_NESTED_VALUE": "nested-from-env",
			},
			want: testConfig{
				StringValue: "namespaced",
				IntValue:    42,
				BoolValue:   true,
				Nested:      testNestedConfig{Value: "nested-from-env"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			var cfg testConfig

			if err := Parse(context.Background(), &cfg, tt.prefix); err != nil {
				t.Fatalf("Parse: %v", err)
			}

			if cfg.StringValue != tt.want.StringValue ||
				cfg.IntValue != tt.want.IntValue ||
				cfg.BoolValue != tt.want.BoolValue ||
				cfg.Nested != tt.want.Nested {
				t.Errorf("Parse = %+v, want %+v", cfg, tt.want)
			}
		})
	}
}

//nolint:paralleltest
func TestParseInvalidValues(t *testing.T) {
	t.Setenv("INT_VALUE", "not-a-number")

	var cfg testConfig

	if err := Parse(context.Background(), &cfg, ""); err == nil {
		t.Fatal("Parse accepted a non-numeric int value")
	}
}

func TestParseRequiresEnvConfigEmbed(t *testing.T) {
	t.Parallel()

	type plainConfig struct {
		Value string `env:"VALUE" default:"x"`
	}

	var cfg plainConfig

	if err := Parse(context.Background(), &cfg, ""); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Parse error = %v, want ErrInvalidConfig", err)
	}
}

type requiredConfig struct {
	EnvConfig

	Needed string `env:"NEEDED_VALUE"`
}

//nolint:paralleltest
func TestParseMissingRequiredVar(t *testing.T) {
	var cfg requiredConfig

	if err := Parse(context.Background(), &cfg, "REQ"); !errors.Is(err, ErrVarNotSet) {
		t.Fatalf("Parse error = %v, want ErrVarNotSet", err)
	}
}
