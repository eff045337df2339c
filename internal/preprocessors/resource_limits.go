// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"fmt"
	"os"
)

// ResourceLimits defines limits for document processing
type ResourceLimits struct {
	MaxFileSize int64 // Maximum input file size in bytes
	MaxPages    int   // PDF pages beyond this are not extracted
	MaxLines    int   // Maximum line count of a text file
}

// DefaultResourceLimits returns the default resource limits
func DefaultResourceLimits() *ResourceLimits {
	return &ResourceLimits{
		MaxFileSize: 100 * 1024 * 1024, // 100MB
		MaxPages:    50,
		MaxLines:    1000000,
	}
}

// ValidateFileSize checks if the file size is within limits
func (rl *ResourceLimits) ValidateFileSize(filePath string) error {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("failed to get file info: %w", err)
	}
	if fileInfo.IsDir() {
		return fmt.Errorf("%s is a directory", filePath)
	}
	if fileInfo.Size() > rl.MaxFileSize {
		return fmt.Errorf("file too large: %d bytes (max %d bytes)", fileInfo.Size(), rl.MaxFileSize)
	}
	return nil
}
