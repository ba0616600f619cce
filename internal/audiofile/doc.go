// Package audiofile loads WAV, MP3 and Ogg Vorbis files as mono float64
// signals and writes rendered signals back as PCM WAV.
package audiofile
