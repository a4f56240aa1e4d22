package translation

import (
	"context"
	"sync/atomic"
)

type stubProvider struct {
	name  string
	fn    func(ctx context.Context, req TranslateRequest) (string, error)
	calls atomic.Int32
}

func (p *stubProvider) Name() string {
	return p.name
}

func (p *stubProvider) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	p.calls.Add(1)
	out, err := p.fn(ctx, req)
	if err != nil {
		return nil, err
	}
	return &TranslateResponse{Text: out, TargetLang: req.TargetLang, ProviderName: p.name}, nil
}

func fixedProvider(name, out string) *stubProvider {
	return &stubProvider{name: name, fn: func(context.Context, TranslateRequest) (string, error) {
		return out, nil
	}}
}

func failingProvider(name string, err error) *stubProvider {
	return &stubProvider{name: name, fn: func(context.Context, TranslateRequest) (string, error) {
		return "", err
	}}
}
