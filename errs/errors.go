package errs

import (
	"errors"
	"fmt"
	"strings"
)

// RepoURL points to the issue tracker referenced in user-facing error text.
const RepoURL = "https://github.com/woped/bpmn-pnml-transformer/issues"

const githubMessage = "Please open an issue at " + RepoURL +
	" with your diagram if you need further assistance."

// Internal marks invariant violations inside the transformer. The message is
// meant for logs; user-facing text stays generic.
type Internal struct {
	Detail string
}

func (e *Internal) Error() string {
	return "We encountered an unknown issue.\n" + githubMessage
}

// Internalf creates an Internal error with a formatted detail message.
func Internalf(format string, v ...any) *Internal {
	return &Internal{Detail: fmt.Sprintf(format, v...)}
}

// Known is a user-facing transformer error with a small numeric id.
type Known struct {
	ID      int
	Message string
}

func (e *Known) Error() string {
	text := fmt.Sprintf("Error description: %s\n%s", e.Message, githubMessage)
	if e.ID != 0 {
		text = fmt.Sprintf("[%d] %s", e.ID, text)
	}
	return text
}

// AsKnown unwraps err into a *Known if it is one.
func AsKnown(err error) (*Known, bool) {
	var known *Known
	if errors.As(err, &known) {
		return known, true
	}
	return nil, false
}

// NotSupportedBPMNElement reports disallowed element tags in the input BPMN.
func NotSupportedBPMNElement(tags ...string) *Known {
	return &Known{ID: 1, Message: fmt.Sprintf("BPMN element %s not supported.", strings.Join(tags, ", "))}
}

// MissingEnvironmentVariable reports required configuration that is absent.
func MissingEnvironmentVariable(name string) *Known {
	return &Known{ID: 2, Message: fmt.Sprintf("Env variable %s not set!", name)}
}

// TokenCheckUnsuccessful reports a failed external token check.
func TokenCheckUnsuccessful() *Known {
	return &Known{ID: 3, Message: "Token check not successful"}
}

// UnexpectedQueryParameter reports an unknown or missing transform direction.
func UnexpectedQueryParameter(param string) *Known {
	return &Known{ID: 4, Message: fmt.Sprintf("Query parameter %s wrong.", param)}
}

// UnnamedLane reports a lane without a name.
func UnnamedLane() *Known {
	return &Known{ID: 5, Message: "Please name all of your lanes."}
}

// UnknownIntermediateCatchEvent reports a trigger of unknown subtype.
func UnknownIntermediateCatchEvent() *Known {
	return &Known{ID: 6, Message: "Wrong intermediate event type used!"}
}

// WrongSubprocessDegree reports a subprocess without exactly one external
// incoming and outgoing flow or one inner start and end event.
func WrongSubprocessDegree() *Known {
	return &Known{ID: 7, Message: "Subprocess must have exactly one in and outgoing flow!"}
}

// ORGatewayDetectionIssue reports an OR-split without a matching join.
func ORGatewayDetectionIssue() *Known {
	return &Known{ID: 8, Message: "Could not find matching splits and joins for OR-Gateways"}
}

// SubprocessWrongInnerSourceSinkDegree reports a subprocess source/sink with
// forbidden incoming/outgoing arcs.
func SubprocessWrongInnerSourceSinkDegree() *Known {
	return &Known{
		ID: 9,
		Message: "Currently, source/sink in subprocess must have no incoming/outgoing arcs" +
			" to convert to BPMN Start and End events.",
	}
}

// UnknownResourceOrganizationMapping reports transitions assigned to more than
// one organizational unit.
func UnknownResourceOrganizationMapping() *Known {
	return &Known{ID: 10, Message: "Resources must belong to the same organization."}
}

// InvalidInputXML reports well-formed XML that does not match the expected schema.
func InvalidInputXML() *Known {
	return &Known{ID: 11, Message: "Seems like the input XML content is unsupported."}
}

// NoRequestTokensAvailable reports an exhausted request quota.
func NoRequestTokensAvailable() *Known {
	return &Known{ID: 14, Message: "No request tokens available. Please try again later."}
}
