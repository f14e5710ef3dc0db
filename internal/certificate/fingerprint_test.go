package certificate

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

var janeDoe = Fields{
	Code:             "12345",
	CandidateName:    "Jane Doe",
	MajorName:        "Computer Science",
	OrganizationName: "Acme Institute",
}

func TestComputeIDKnownVector(t *testing.T) {
	// sha256("12345" + "Jane Doe" + "Computer Science" + "Acme Institute")
	id, err := ComputeID(janeDoe)
	require.NoError(t, err)
	require.Equal(t, "30ccdb85b7b6fb49379ddd57c5847406b3fd285b6dcf3b00b63878af9996c9d4", id)
}

func TestComputeIDDeterministic(t *testing.T) {
	first, err := ComputeID(janeDoe)
	require.NoError(t, err)
	second, err := ComputeID(janeDoe)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestComputeIDOutputShape(t *testing.T) {
	id, err := ComputeID(Fields{
		Code:             "A-9981",
		CandidateName:    "Renée Müller",
		MajorName:        "Électrotechnique",
		OrganizationName: "École Polytechnique",
	})
	require.NoError(t, err)
	require.Regexp(t, regexp.MustCompile(`^[0-9a-f]{64}$`), id)
}

func TestComputeIDSensitivity(t *testing.T) {
	base, err := ComputeID(janeDoe)
	require.NoError(t, err)

	variants := []Fields{
		{Code: "12346", CandidateName: "Jane Doe", MajorName: "Computer Science", OrganizationName: "Acme Institute"},
		{Code: "12345", CandidateName: "Jane Roe", MajorName: "Computer Science", OrganizationName: "Acme Institute"},
		{Code: "12345", CandidateName: "Jane Doe", MajorName: "Mathematics", OrganizationName: "Acme Institute"},
		{Code: "12345", CandidateName: "Jane Doe", MajorName: "Computer Science", OrganizationName: "Acme University"},
	}
	for _, v := range variants {
		id, err := ComputeID(v)
		require.NoError(t, err)
		require.NotEqual(t, base, id)
	}
}

func TestComputeIDFieldOrderMatters(t *testing.T) {
	swapped := janeDoe
	swapped.Code, swapped.CandidateName = swapped.CandidateName, swapped.Code

	base, err := ComputeID(janeDoe)
	require.NoError(t, err)
	id, err := ComputeID(swapped)
	require.NoError(t, err)
	require.NotEqual(t, base, id)
}

func TestComputeIDEmptyField(t *testing.T) {
	for _, f := range []Fields{
		{Code: "", CandidateName: "Jane Doe", MajorName: "CS", OrganizationName: "Acme"},
		{Code: "1", CandidateName: "", MajorName: "CS", OrganizationName: "Acme"},
		{Code: "1", CandidateName: "Jane Doe", MajorName: "", OrganizationName: "Acme"},
		{Code: "1", CandidateName: "Jane Doe", MajorName: "CS", OrganizationName: "  "},
	} {
		_, err := ComputeID(f)
		require.ErrorIs(t, err, ErrEmptyField)
	}
}

func TestComputeIDInvalidEncoding(t *testing.T) {
	f := janeDoe
	f.CandidateName = "Jane\xff\xfeDoe"
	_, err := ComputeID(f)
	require.ErrorIs(t, err, ErrEncoding)
}
