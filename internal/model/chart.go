package model

type AxisType string

const (
	AxisTypeX AxisType = "x"
	AxisTypeY AxisType = "y"
)

type MarkType string

const (
	MarkTypeLine    MarkType = "line"
	MarkTypeBar     MarkType = "bar"
	MarkTypeArea    MarkType = "area"
	MarkTypeScatter MarkType = "scatter"
)

type ReferenceType string

const (
	ReferenceTypeLine ReferenceType = "line"
	ReferenceTypeDot  ReferenceType = "dot"
	ReferenceTypeArea ReferenceType = "area"
)

type Axis struct {
	ID          string   `json:"id"`
	Type        AxisType `json:"axisType"`
	DataKey     string   `json:"dataKey,omitempty"`
	Orientation string   `json:"orientation,omitempty"`
	Label       string   `json:"label,omitempty"`
}

type Mark struct {
	Type    MarkType `json:"markType"`
	DataKey string   `json:"dataKey"`
	Name    string   `json:"name"`
	AxisID  string   `json:"yAxisId"`
	Dashed  bool     `json:"dashed,omitempty"`
}

// ReferenceMark is a fixed annotation drawn over the chart, such as a specification limit.
// Lines use either X or Y; dots use both; areas span X..X2 and/or Y..Y2.
type ReferenceMark struct {
	Type   ReferenceType `json:"markType" validate:"required,oneof=line dot area"`
	AxisID string        `json:"yAxisId" validate:"omitempty,oneof=left right"`
	X      *Key          `json:"x,omitempty"`
	X2     *Key          `json:"x2,omitempty"`
	Y      *float64      `json:"y,omitempty"`
	Y2     *float64      `json:"y2,omitempty"`
	Label  string        `json:"label,omitempty" validate:"max=64"`
}

// Chart is the payload handed to the rendering surface.
type Chart struct {
	Rows       []Row           `json:"rows"`
	Axes       []Axis          `json:"axes"`
	Marks      []Mark          `json:"marks"`
	References []ReferenceMark `json:"references"`
}
