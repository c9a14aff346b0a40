// Command butler ingests local media into an S3-compatible store and
// maintains the project manifest that names, dedupes, and rotates the
// uploaded assets.
package main
