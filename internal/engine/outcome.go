package engine

import "fmt"

// Outcome is the verdict on one markup candidate: either the accepted image
// path or the feedback text for a rejected candidate.
type Outcome struct {
	ImagePath string
	Remarks   string
	accepted  bool
}

func Accepted(imagePath string) Outcome {
	return Outcome{ImagePath: imagePath, accepted: true}
}

func Rejected(remarks string) Outcome {
	return Outcome{Remarks: remarks}
}

func (o Outcome) IsAccepted() bool { return o.accepted }

func (o Outcome) String() string {
	if o.accepted {
		return fmt.Sprintf("accepted: %s", o.ImagePath)
	}
	return fmt.Sprintf("rejected: %s", o.Remarks)
}
