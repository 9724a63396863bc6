package main

import "github.com/nsxzhou1114/notification-api/cmd"

func main() {
	cmd.Execute()
}
