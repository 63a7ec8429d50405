package ring

import "strings"

// Instance is a single cluster member: identity tuple of node name,
// ring token, and data center. Immutable after construction; equality
// is by node name alone, matching the source cluster's identity model
// where a node name is never reused across a node's lifetime.
type Instance struct {
	NodeName   string
	Token      Token
	DataCenter string
}

// NewInstance builds an Instance.
func NewInstance(nodeName string, token Token, dataCenter string) Instance {
	return Instance{NodeName: nodeName, Token: token, DataCenter: dataCenter}
}

// Equal compares instances by node name only.
func (i Instance) Equal(other Instance) bool {
	return i.NodeName == other.NodeName
}

// InSameDC reports whether i and dc match case-insensitively, the
// comparison rule consistency-level DC filtering uses throughout.
func (i Instance) InSameDC(dc string) bool {
	return strings.EqualFold(i.DataCenter, dc)
}

func (i Instance) String() string {
	return i.NodeName + "@" + i.DataCenter
}
