// Package configs provides the embedded configuration template for
// docdex. The template is embedded at build time so 'docdex config
// init' works from any distribution, source build or binary release.
package configs

import _ "embed"

// ExampleConfig is the annotated configuration template written by
// 'docdex config init'.
//
//go:embed docdex.example.yaml
var ExampleConfig string
