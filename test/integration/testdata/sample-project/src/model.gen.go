// TODO: generated, ignored by .ignore
package server
