package main

import "github.com/adanyl0v/go-todo-board/internal/app"

func main() {
	app.InitDefaultLogger()
	app.MustReadEnv()
	app.MustInitApplicationLogger()

	st := app.MustConnectStore()
	defer app.DisconnectStore(st)

	app.MustListenAndServeHTTP(st)
}
