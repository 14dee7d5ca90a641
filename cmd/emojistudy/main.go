package main

import "github.com/SPR1NGQAQ/Emoji-password-prototype/cmd/emojistudy/cmd"

func main() {
	cmd.Execute()
}
