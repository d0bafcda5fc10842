package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           runnerd API
// @version         1.0
// @description     HTTP API for persisting predictive models and serving them through runners.
//
// @contact.name   runnerd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
