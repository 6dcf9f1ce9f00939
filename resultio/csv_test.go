package resultio_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/pstnexec/resultio"
)

type CSVSuite struct {
	suite.Suite
	dir string
}

func (s *CSVSuite) SetupTest() {
	s.dir = s.T().TempDir()
}

func (s *CSVSuite) readAll(path string) [][]string {
	f, err := os.Open(path)
	s.Require().NoError(err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	s.Require().NoError(err)
	return rows
}

func (s *CSVSuite) TestAppendWritesHeaderOnlyOnce() {
	require := require.New(s.T())
	path := filepath.Join(s.dir, "out.csv")

	row := resultio.Row{Execution: "early", Robustness: 0.9, Threads: 4, Samples: 100}
	require.NoError(resultio.Append(path, row))
	require.NoError(resultio.Append(path, row))

	rows := s.readAll(path)
	require.Len(rows, 3, "one header row plus two data rows")
	require.Equal("execution", rows[0][0])
	require.Equal("robustness", rows[0][1])
	require.Equal("early", rows[1][0])
	require.Equal("early", rows[2][0])
}

func (s *CSVSuite) TestAppendColumnOrderMatchesRowFields() {
	require := require.New(s.T())
	path := filepath.Join(s.dir, "out2.csv")

	row := resultio.Row{
		Execution:          "drea",
		Robustness:         0.75,
		Threads:            2,
		RandomSeed:         123,
		RuntimeSeconds:     1.5,
		Samples:            50,
		Timestamp:          "2026-07-30T00:00:00Z",
		STNPath:            "net.json",
		ARThreshold:        0.1,
		SIThreshold:        0.2,
		SynchronousDensity: 0.3,
		SDAvg:              0.4,
		VertCount:          5,
		ContingentDensity:  0.6,
		RescheduleFreq:     0.7,
		SendFreq:           0.8,
	}
	require.NoError(resultio.Append(path, row))

	rows := s.readAll(path)
	require.Len(rows, 2)
	data := rows[1]
	require.Equal("drea", data[0])
	require.Equal("net.json", data[7])
	require.Equal("5", data[12])
}

func TestCSVSuite(t *testing.T) {
	suite.Run(t, new(CSVSuite))
}
