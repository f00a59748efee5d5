package main

// General API documentation for swaggo. Run `swag init -g cmd/domainllm/docs.go` to regenerate docs.
//
// @title           domainllm API
// @version         1.0.0
// @description     Domain name generation, analysis and pricing backed by a local Ollama server.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
