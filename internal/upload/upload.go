package upload

import "context"

// Asset is one object stored on the external host. PublicID is the
// host-side handle needed to delete the object again.
type Asset struct {
	URL      string
	PublicID string
}

// AssetHost is the external object storage the catalog pushes images
// to. Implementations must be safe for concurrent use.
type AssetHost interface {
	Upload(ctx context.Context, localPath, folder string) (*Asset, error)
	Destroy(ctx context.Context, publicID string) error
}
