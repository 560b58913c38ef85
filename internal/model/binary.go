package model

// BinaryDataArray is a decoded numeric array together with the parameters
// describing its precision, compression and kind. The array exclusively owns
// its buffer: values are copied on construction and on every read.
type BinaryDataArray struct {
	ParamGroup
	dataProcessing *DataProcessing
	data           []float64
}

// NewBinaryDataArray copies data into a new array.
func NewBinaryDataArray(dp *DataProcessing, data []float64, params *ParamGroup) *BinaryDataArray {
	a := &BinaryDataArray{dataProcessing: dp}
	if params != nil {
		a.ParamGroup = *params.Clone()
	}
	a.data = make([]float64, len(data))
	copy(a.data, data)
	return a
}

// Doubles returns a copy of the values.
func (a *BinaryDataArray) Doubles() []float64 {
	if a == nil {
		return nil
	}
	out := make([]float64, len(a.data))
	copy(out, a.data)
	return out
}

// Len returns the number of values without copying them.
func (a *BinaryDataArray) Len() int {
	if a == nil {
		return 0
	}
	return len(a.data)
}

func (a *BinaryDataArray) DataProcessing() *DataProcessing {
	return a.dataProcessing
}

// HasCvParam reports whether the array carries a CV parameter with the
// given accession.
func (a *BinaryDataArray) HasCvParam(accession string) bool {
	for _, p := range a.CvParams {
		if p.HasAccession(accession) {
			return true
		}
	}
	return false
}
