package main

import "hrms/internal/app/server"

func main() {
	server.Run()
}
