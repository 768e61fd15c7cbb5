package handler

import "strings"

// FinalizeRequest is the body of POST /proposals/{id}/certificate. The file
// has already been rendered and stored by the caller.
type FinalizeRequest struct {
	FilePath string `json:"file_path" validate:"required,max=1024"`
	FileName string `json:"file_name" validate:"required,max=1024"`
	FileSize int64  `json:"file_size" validate:"gte=0"`
	Blanket  bool   `json:"blanket"`
}

func (r *FinalizeRequest) Validate() error {
	r.FilePath = strings.TrimSpace(r.FilePath)
	r.FileName = strings.TrimSpace(r.FileName)
	return nil
}
