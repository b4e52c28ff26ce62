package tutor

import (
	"fmt"
	"strings"

	"github.com/ashpool37/pytutor-server/internal/curriculum"
	"github.com/ashpool37/pytutor-server/internal/domain"
)

// Fallback texts shown in place of a model reply when a generation call
// fails. Surfaced in-band as chat/output content, never as a crash.
const (
	greetingFallback  = "你好！AI 导师目前连接有点不顺畅，请检查右上角的 API Key 状态，或者直接在右侧开始写代码吧。"
	chatFallback      = "网络连接出现问题，请稍后再试。"
	runFailureFormat  = "\n\n[系统提示] 代码执行服务暂时不可用 (API Error)。\n请检查 API Key 或网络连接。\n错误详情: %s\n"
	tracebackDivider  = "--------------------------------------------------"
	executionTemplate = `
Act as a Python interpreter. Execute the following code and show the output.
If the code takes user input (input() function), simulate a typical input for the context.
If there is an error, show the traceback, then print a separator line "%s",
then explain the error in Chinese (under the heading "错误分析"), and provide the corrected code (under the heading "修正代码").
Do not output anything else (like "Here is the output") except the code execution result.

Code to execute:
%s
`
)

// greetingPrompt builds the introductory prompt for an empty chat buffer.
// Project topics get the step-by-step mentor framing; concept topics get
// the lesson framing.
func greetingPrompt(topic *curriculum.Topic) string {
	if topic.Category == curriculum.CategoryProject {
		return fmt.Sprintf(
			"你是一位经验丰富的 Python 项目导师。当前项目是：%s。难度级别：%s。你的目标是指导用户分步骤完成这个项目。请先用中文简单介绍项目，并说明第一步需要做什么。%s",
			topic.Title, topic.Difficulty, topic.PromptTopic)
	}
	return fmt.Sprintf(
		"你是一位友好的 Python 老师。当前课程是：%s。请用简洁的中文介绍这个概念，并给出一个简单的代码示例。%s",
		topic.Title, topic.PromptTopic)
}

// chatPrompt embeds the topic title, the verbatim code buffer and the
// serialized transcript into one chat-turn prompt. The new user message
// is expected to already be the last history entry.
func chatPrompt(topic *curriculum.Topic, code string, history []domain.ChatMessage, userText string) string {
	var transcript strings.Builder
	for _, m := range history {
		role := "Model"
		if m.Role == domain.RoleUser {
			role = "User"
		}
		transcript.WriteString(role)
		transcript.WriteString(": ")
		transcript.WriteString(m.Text)
		transcript.WriteString("\n")
	}

	return fmt.Sprintf(`
Current Topic: %s
Current User Code:
`+"```python\n%s\n```"+`
Chat History:
%s
User: %s
请用中文回答。如果用户在做项目，检查代码进度并给出指引。如果代码有错误，请温柔地指出。
`, topic.Title, code, transcript.String(), userText)
}

// executionPrompt instructs the service to behave as an interpreter over
// the given code, narrating plausible output.
func executionPrompt(code string) string {
	return fmt.Sprintf(executionTemplate, tracebackDivider, code)
}
