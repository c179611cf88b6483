// Command callboardctl administers the board from the shell: the rubric tree,
// moderation of ads and comments, and user removal.
package main

import "github.com/localnerve/callboard/cmd/callboardctl/commands"

func main() {
	commands.Execute()
}
