// Command hydro is a local-first hydration tracker with an optional HTTP API.
//
// @title HydroBuddy API
// @description Local API for the HydroBuddy hydration tracker
// @BasePath /api/v1
// @schemes http
package main

import "github.com/limbo/hydrobuddy/cmd/hydro/root"

func main() {
	root.Execute()
}
