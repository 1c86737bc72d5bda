package main

import "frontdeskbot/internal/app"

func main() {
	app.Main()
}
