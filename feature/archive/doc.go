// Package archive keeps a copy of every staged torrent file in object storage
// before the engine deletes it.
//
// Files are uploaded as <prefix>/<title>.torrent with the item's final status in
// the object metadata. The bucket is created on first upload. Archiving is best
// effort: a failed upload is logged and the staged file is still removed.
//
// # Routes
//
//   - GET /archive: list archived files
//   - DELETE /archive/:name: remove one archived file
package archive
