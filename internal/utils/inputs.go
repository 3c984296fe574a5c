package utils

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// PromptYesNo asks question on stdout and reads an answer from stdin,
// repeating until the user types some form of yes or no.
func PromptYesNo(question string) bool {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Printf("%s (y/n): ", question)
		response, _ := reader.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(response)) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		default:
			fmt.Println("Please enter y or n")
		}
	}
}
