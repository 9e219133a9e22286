package main

import "github.com/jiawen-jasmine-chen/todosync/cmd"

func main() {
	cmd.Execute()
}
