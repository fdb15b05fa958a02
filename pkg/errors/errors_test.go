package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeConfigNotFound, "no layup for %d cores", 99)

	if err.Code != ErrCodeConfigNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeConfigNotFound)
	}

	if err.Message != "no layup for 99 cores" {
		t.Errorf("Message = %v, want %v", err.Message, "no layup for 99 cores")
	}

	expected := "CONFIG_NOT_FOUND: no layup for 99 cores"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("png encoder exploded")
	err := Wrap(ErrCodeRenderBackend, cause, "render png")

	if err.Code != ErrCodeRenderBackend {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeRenderBackend)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	want := "RENDER_BACKEND_FAILURE: render png: png encoder exploded"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeDegenerateGeometry, "test"),
			code:     ErrCodeDegenerateGeometry,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeDegenerateGeometry, "test"),
			code:     ErrCodeEmptyMesh,
			expected: false,
		},
		{
			name:     "outermost code wins",
			err:      Wrap(ErrCodeMeshUnion, New(ErrCodeDegenerateGeometry, "inner"), "outer"),
			code:     ErrCodeMeshUnion,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeUnknownColorCode, "test"), ErrCodeUnknownColorCode},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCategories(t *testing.T) {
	if !IsGeometry(New(ErrCodeEmptyMesh, "x")) {
		t.Error("IsGeometry(EMPTY_MESH_RESULT) = false")
	}
	if IsGeometry(New(ErrCodeConfigNotFound, "x")) {
		t.Error("IsGeometry(CONFIG_NOT_FOUND) = true")
	}
	if !IsLookup(New(ErrCodeConductorDimensionNotFound, "x")) {
		t.Error("IsLookup(CONDUCTOR_DIMENSION_NOT_FOUND) = false")
	}
	if IsLookup(errors.New("plain")) {
		t.Error("IsLookup(plain) = true")
	}
}

func TestDetail(t *testing.T) {
	inner := New(ErrCodeMissingArmourShape, "armour layer has no shape")
	err := Wrap(ErrCodeMissingArmourShape, inner, "layer 7 (armour)")
	if got, want := Detail(err), "layer 7 (armour): armour layer has no shape"; got != want {
		t.Errorf("Detail() = %q, want %q", got, want)
	}

	plain := Wrap(ErrCodeInternal, errors.New("disk full"), "save")
	if got, want := Detail(plain), "save: disk full"; got != want {
		t.Errorf("Detail() = %q, want %q", got, want)
	}
}
