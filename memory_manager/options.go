package memorymanager

import "context"

type Option func(*Options)

type Options struct {
	// Location is the backing store address, e.g. a postgres DSN.
	Location string
	// ApiKey and EmbedderModel configure the embedding backend where the
	// store needs one.
	ApiKey        string
	EmbedderModel string
	// Window bounds short-term memory per session.
	Window  int
	Context context.Context
}

func WithLocation(location string) Option {
	return func(o *Options) {
		o.Location = location
	}
}

func WithApiKey(apiKey string) Option {
	return func(o *Options) {
		o.ApiKey = apiKey
	}
}

func WithEmbedderModel(model string) Option {
	return func(o *Options) {
		o.EmbedderModel = model
	}
}

func WithWindow(window int) Option {
	return func(o *Options) {
		o.Window = window
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Window:  20,
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

type CreateSessionOption func(*CreateSessionOptions)

type CreateSessionOptions struct {
	SessionId string
	Context   context.Context
}

// WithSessionId pins the new session to a caller-chosen identifier.
func WithSessionId(id string) CreateSessionOption {
	return func(o *CreateSessionOptions) {
		o.SessionId = id
	}
}

func NewCreateSessionOptions(opts ...CreateSessionOption) CreateSessionOptions {
	options := CreateSessionOptions{
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

type ListShortTermOption func(*ListShortTermOptions)

type ListShortTermOptions struct {
	Limit   int
	Context context.Context
}

func WithShortTermLimit(limit int) ListShortTermOption {
	return func(o *ListShortTermOptions) {
		o.Limit = limit
	}
}

func NewListShortTermOptions(opts ...ListShortTermOption) ListShortTermOptions {
	options := ListShortTermOptions{
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

type SearchLongTermOption func(*SearchLongTermOptions)

type SearchLongTermOptions struct {
	Limit   int
	Context context.Context
}

func WithSearchLongTermLimit(limit int) SearchLongTermOption {
	return func(o *SearchLongTermOptions) {
		o.Limit = limit
	}
}

func NewSearchLongTermOptions(opts ...SearchLongTermOption) SearchLongTermOptions {
	options := SearchLongTermOptions{
		Limit:   8,
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
