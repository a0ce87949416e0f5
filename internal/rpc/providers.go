package rpc

import "github.com/google/wire"

// LocalSet serves the web tier from in-process services.
var LocalSet = wire.NewSet(
	NewLocal,
	wire.Bind(new(PostsAPI), new(*Local)),
)

// RemoteSet serves the web tier from an API tier at baseURL.
var RemoteSet = wire.NewSet(
	ProvideClient,
	wire.Bind(new(PostsAPI), new(*Client)),
)

// BaseURL is the API tier origin used by Client.
type BaseURL string

// ProvideClient creates a Client with a pooled transport.
func ProvideClient(baseURL BaseURL) *Client {
	return NewClient(string(baseURL), nil)
}
