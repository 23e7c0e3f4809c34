// Package portfolio is the content engine behind the portfolio editor.
//
// It owns the typed JSON collections that the static site reads (one array
// file per Kind under the data directory), the image assets referenced by
// entries, and the publish step that stages, commits and pushes the working
// tree to the site's git remote.
//
// The Service interface is the single entry point. It composes parts
// that are also usable on their own:
//
//   - Slugify derives entry ids and asset names from free text.
//   - AssetStore decodes data URLs into files under the images directory.
//   - Composer flattens ordered content blocks into an entry body, and
//     Decompose rebuilds blocks from a stored body.
//   - CollectionStore loads, validates and rewrites a kind's collection file.
//   - Publisher drives a VersionControl implementation (see package git).
//
// Storage goes through the BlobStore interface, with filesystem, memory and
// S3 implementations under storage/.
package portfolio
