package service

// CodecInterface defines the contract for image compression
type CodecInterface interface {
	// Compress decodes, bounds and re-encodes an image per the profile
	Compress(data []byte, profile Profile) (*CompressedImage, error)
	// Format returns the output format chosen at construction
	Format() string
}
