package tourl

import (
	"github.com/caelisco/tourl/options"
	"github.com/caelisco/tourl/response"
)

// Aliases so callers of the root package rarely need the subpackages.

// Alias to options.Option
type Option = options.Option

// Alias to response.Response
type Response = response.Response
