package explain

import "fmt"

const promptTemplate = "Please explain the following code in detail. " +
	"Break it down line by line if it's complex, explain what it does, how it works, " +
	"and any important concepts or patterns used:\n\n" +
	"```\n%s\n```\n\n" +
	"Please provide:\n" +
	"1. A brief overview of what the code does\n" +
	"2. Line-by-line explanation for complex parts\n" +
	"3. Key concepts or patterns used\n" +
	"4. Any potential improvements or considerations"

// Prompt embeds code in the fixed instruction sent to the generation service.
// The code is passed through verbatim.
func Prompt(code string) string {
	return fmt.Sprintf(promptTemplate, code)
}
