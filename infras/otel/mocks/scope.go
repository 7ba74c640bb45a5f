package mocks

import "github.com/Valex-Destigos/TooDoo/infras/otel"

type scopeImpl struct {
}

// End implements otel.Scope.
func (s *scopeImpl) End() {

}

// TraceError implements otel.Scope.
func (s *scopeImpl) TraceError(_ error) {

}

// TraceIfError implements otel.Scope.
func (s *scopeImpl) TraceIfError(_ error) {

}

// AddEvent implements otel.Scope.
func (s *scopeImpl) AddEvent(_ string) {

}

// SetAttribute implements otel.Scope.
func (s *scopeImpl) SetAttribute(_ string, _ any) {

}

// SetAttributes implements otel.Scope.
func (s *scopeImpl) SetAttributes(_ map[string]any) {

}

func NewScope() otel.Scope {
	return &scopeImpl{}
}
