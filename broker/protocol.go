package broker

import "regexp"

// Regexes mirror the original's boost::regex patterns exactly
// (broker_adapter.cpp's _regex_* globals), spec.md §4.8's "Inbound (matched
// by regex)" list.
var (
	reMessageFrom     = regexp.MustCompile(`^(\S+) >> (.+)$`)
	reConfirmRequest  = regexp.MustCompile(`^(accept|reject) request ([0-9]+)? ?(\{(.+)\})?$`)
	reResponse        = regexp.MustCompile(`^response ([0-9]+) (\S+) \{(.*)\}$`)
	reNotifyAssign    = regexp.MustCompile(`^notify assign request ([0-9]+) to (\S+)$`)
	reNotifyState     = regexp.MustCompile(`^notify state (idle|busy|full)(?: ([0-9]+)/([0-9]+)(?: (.+))?)?$`)
	reNotifyCapacity  = regexp.MustCompile(`^notify capacity ([0-9]+) ?(.*)$`)
	reConfirmTerminate = regexp.MustCompile(`^(accept|confirm|reject) terminate ([0-9]+)$`)
	reConfirmProtocol = regexp.MustCompile(`^(accept|reject) protocol (.+)$`)
)

// stringifyRequest builds the outbound "request {command}[ with options]"
// line (spec.md §4.8 "job creation").
func stringifyRequest(command, options string) string {
	s := "request {" + command + "}"
	if options != "" {
		s += " with " + options
	}
	return s
}
