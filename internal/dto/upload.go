package dto

// UploadResponse returns where an uploaded image can be fetched.
type UploadResponse struct {
	URL    string `json:"url"`
	Key    string `json:"key"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Bytes  int64  `json:"bytes"`
}
