package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCSVWriter(t *testing.T) {
	writer := NewCSVWriter("/some/dir")

	assert.NotNil(t, writer)
	assert.Equal(t, "/some/dir", writer.dir)
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	tempDir := t.TempDir()
	writer := NewCSVWriter(tempDir)

	tests := []struct {
		name        string
		filePath    string
		options     WriteOptions
		expectError bool
		validate    func(t *testing.T, filePath string)
	}{
		{
			name:     "basic write with headers",
			filePath: "test_basic.csv",
			options: WriteOptions{
				Headers: []string{"scenario", "rp", "k", "value"},
				Records: [][]string{
					{"ScenarioA", "rp01", "k0001", "12.5"},
					{"ScenarioA", "rp01", "k0002", "13"},
				},
				Append:    false,
				BOMPrefix: false,
			},
			expectError: false,
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)

				lines := strings.Split(strings.TrimSpace(string(content)), "\n")
				assert.Len(t, lines, 3) // header + 2 records
				assert.Equal(t, "scenario,rp,k,value", lines[0])
				assert.Equal(t, "ScenarioA,rp01,k0001,12.5", lines[1])
				assert.Equal(t, "ScenarioA,rp01,k0002,13", lines[2])
			},
		},
		{
			name:     "write with BOM prefix",
			filePath: "test_bom.csv",
			options: WriteOptions{
				Headers: []string{"i", "lat"},
				Records: [][]string{
					{"Madrid", "40.42"},
				},
				Append:    false,
				BOMPrefix: true,
			},
			expectError: false,
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)

				// Check for UTF-8 BOM
				assert.True(t, bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}))

				// Remove BOM and check content
				contentWithoutBOM := content[3:]
				lines := strings.Split(strings.TrimSpace(string(contentWithoutBOM)), "\n")
				assert.Equal(t, "i,lat", lines[0])
				assert.Equal(t, "Madrid,40.42", lines[1])
			},
		},
		{
			name:     "write without headers",
			filePath: "test_no_headers.csv",
			options: WriteOptions{
				Headers: nil,
				Records: [][]string{
					{"Data1", "Data2"},
					{"Data3", "Data4"},
				},
				Append:    false,
				BOMPrefix: false,
			},
			expectError: false,
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)

				lines := strings.Split(strings.TrimSpace(string(content)), "\n")
				assert.Len(t, lines, 2) // only records, no headers
				assert.Equal(t, "Data1,Data2", lines[0])
				assert.Equal(t, "Data3,Data4", lines[1])
			},
		},
		{
			name:     "append to existing file",
			filePath: "test_append.csv",
			options: WriteOptions{
				Records: [][]string{
					{"AppendedData1", "AppendedData2"},
				},
				Append:    false,
				BOMPrefix: false,
			},
			expectError: false,
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)

				// Should contain both original and appended data
				assert.Contains(t, string(content), "InitData1,InitData2")
				assert.Contains(t, string(content), "AppendedData1,AppendedData2")
			},
		},
		{
			name:     "empty records",
			filePath: "test_empty.csv",
			options: WriteOptions{
				Headers:   []string{"Col1", "Col2"},
				Records:   [][]string{},
				Append:    false,
				BOMPrefix: false,
			},
			expectError: false,
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)

				lines := strings.Split(strings.TrimSpace(string(content)), "\n")
				assert.Len(t, lines, 1) // only headers
				assert.Equal(t, "Col1,Col2", lines[0])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fullPath := filepath.Join(tempDir, tt.filePath)

			// For append test, create initial file first
			if tt.name == "append to existing file" {
				initialOptions := WriteOptions{
					Headers:   []string{"Initial1", "Initial2"},
					Records:   [][]string{{"InitData1", "InitData2"}},
					Append:    false,
					BOMPrefix: false,
				}
				err := writer.WriteCSV(tt.filePath, initialOptions)
				require.NoError(t, err)
				tt.options.Append = true
			}

			err := writer.WriteCSV(tt.filePath, tt.options)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				tt.validate(t, fullPath)
			}
		})
	}
}

func TestCSVWriter_WriteSimpleCSV(t *testing.T) {
	tempDir := t.TempDir()
	writer := NewCSVWriter(tempDir)

	headers := []string{"scenario", "g", "MaxProd"}
	records := [][]string{
		{"ScenarioA", "CCGT_1", "400"},
		{"ScenarioA", "Nuclear_1", "1000"},
	}

	err := writer.WriteSimpleCSV("simple_test.csv", headers, records)
	assert.NoError(t, err)

	// Validate file content
	filePath := filepath.Join(tempDir, "simple_test.csv")
	content, err := os.ReadFile(filePath)
	require.NoError(t, err)

	// Check for BOM (WriteSimpleCSV uses BOMPrefix: true)
	assert.True(t, bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}))

	// Remove BOM and check content
	contentWithoutBOM := content[3:]
	lines := strings.Split(strings.TrimSpace(string(contentWithoutBOM)), "\n")
	assert.Len(t, lines, 3) // header + 2 records
	assert.Equal(t, "scenario,g,MaxProd", lines[0])
	assert.Equal(t, "ScenarioA,CCGT_1,400", lines[1])
	assert.Equal(t, "ScenarioA,Nuclear_1,1000", lines[2])
}

func TestCSVWriter_AppendToCSV(t *testing.T) {
	tempDir := t.TempDir()
	writer := NewCSVWriter(tempDir)

	filePath := "append_test.csv"
	fullPath := filepath.Join(tempDir, filePath)

	// Create initial file
	initialRecords := [][]string{
		{"Initial1", "Initial2"},
		{"Data1", "Data2"},
	}
	err := writer.WriteSimpleCSV(filePath, []string{"Col1", "Col2"}, initialRecords)
	require.NoError(t, err)

	// Append new records
	appendRecords := [][]string{
		{"Appended1", "Appended2"},
		{"NewData1", "NewData2"},
	}
	err = writer.AppendToCSV(filePath, appendRecords)
	assert.NoError(t, err)

	// Validate content
	content, err := os.ReadFile(fullPath)
	require.NoError(t, err)

	// Remove BOM for easier parsing
	contentWithoutBOM := content[3:]
	lines := strings.Split(strings.TrimSpace(string(contentWithoutBOM)), "\n")

	assert.Len(t, lines, 5) // header + 2 initial + 2 appended
	assert.Equal(t, "Col1,Col2", lines[0])
	assert.Equal(t, "Initial1,Initial2", lines[1])
	assert.Equal(t, "Data1,Data2", lines[2])
	assert.Equal(t, "Appended1,Appended2", lines[3])
	assert.Equal(t, "NewData1,NewData2", lines[4])
}

func TestCSVWriter_ResolvePath(t *testing.T) {
	tempDir := t.TempDir()
	writer := NewCSVWriter(tempDir)

	t.Run("relative path joins output dir", func(t *testing.T) {
		result := writer.resolvePath("Power_Demand.csv")
		assert.Equal(t, filepath.Join(tempDir, "Power_Demand.csv"), result)
	})

	t.Run("nested relative path", func(t *testing.T) {
		result := writer.resolvePath(filepath.Join("ScenarioA", "Power_Demand.csv"))
		assert.Equal(t, filepath.Join(tempDir, "ScenarioA", "Power_Demand.csv"), result)
	})

	t.Run("absolute path kept as-is", func(t *testing.T) {
		abs := filepath.Join(tempDir, "elsewhere", "file.csv")
		result := writer.resolvePath(abs)
		assert.Equal(t, abs, result)
	})
}

func TestCSVWriter_SpecialCharacters(t *testing.T) {
	tempDir := t.TempDir()
	writer := NewCSVWriter(tempDir)

	// Test with special characters that need CSV escaping
	headers := []string{"scenario", "comments"}
	records := [][]string{
		{"ScenarioA", "baseline, no retrofits"},
		{"ScenarioB", "quoted \"high RES\" variant"},
		{"ScenarioC", "notes with\nnewlines"},
	}

	err := writer.WriteSimpleCSV("special_chars.csv", headers, records)
	assert.NoError(t, err)

	// Read back through a CSV reader to verify escaping round-trips
	file, err := os.Open(filepath.Join(tempDir, "special_chars.csv"))
	require.NoError(t, err)
	defer file.Close()

	// Skip BOM
	bom := make([]byte, 3)
	_, err = file.Read(bom)
	require.NoError(t, err)

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 4)
	assert.Equal(t, headers, rows[0])
	assert.Equal(t, records[0], rows[1])
	assert.Equal(t, records[1], rows[2])
	assert.Equal(t, records[2], rows[3])
}

func TestCSVWriter_CreatesNestedDirectories(t *testing.T) {
	tempDir := t.TempDir()
	writer := NewCSVWriter(tempDir)

	err := writer.WriteSimpleCSV(
		filepath.Join("ScenarioA", "tables", "Power_Demand.csv"),
		[]string{"scenario", "rp", "k", "i", "value"},
		[][]string{{"ScenarioA", "rp01", "k0001", "Madrid", "10"}},
	)
	assert.NoError(t, err)

	_, err = os.Stat(filepath.Join(tempDir, "ScenarioA", "tables", "Power_Demand.csv"))
	assert.NoError(t, err)
}

func TestStreamWriter(t *testing.T) {
	tempDir := t.TempDir()
	writer := NewCSVWriter(tempDir)

	stream, err := writer.CreateStreamWriter("stream_test.csv", []string{"scenario", "rp", "k", "g", "value"})
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		require.NoError(t, stream.WriteRecord([]string{"ScenarioA", "rp01", "k0001", "Hydro_1", "1.5"}))
	}
	require.NoError(t, stream.Close())

	content, err := os.ReadFile(filepath.Join(tempDir, "stream_test.csv"))
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}))

	lines := strings.Split(strings.TrimSpace(string(content[3:])), "\n")
	assert.Len(t, lines, 101) // header + 100 records
	assert.Equal(t, "scenario,rp,k,g,value", lines[0])
	assert.Equal(t, "ScenarioA,rp01,k0001,Hydro_1,1.5", lines[100])
}

func TestStreamWriter_NoHeaders(t *testing.T) {
	tempDir := t.TempDir()
	writer := NewCSVWriter(tempDir)

	stream, err := writer.CreateStreamWriter("no_headers.csv", nil)
	require.NoError(t, err)
	require.NoError(t, stream.WriteRecord([]string{"a", "b"}))
	require.NoError(t, stream.Close())

	content, err := os.ReadFile(filepath.Join(tempDir, "no_headers.csv"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content[3:])), "\n")
	assert.Len(t, lines, 1)
	assert.Equal(t, "a,b", lines[0])
}
