package main

import "allsers_backend/internal/app"

func main() {
	app.Run()
}
