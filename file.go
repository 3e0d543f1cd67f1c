package archive

import (
	"bufio"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

func WriteBinaryFile(name string, r Record, opts ...Option) error {
	return writeFile(ModeWriteBinary, name, r, opts)
}

func WriteTextFile(name string, r Record, opts ...Option) error {
	return writeFile(ModeWriteText, name, r, opts)
}

func ReadBinaryFile(name string, r Record, opts ...Option) error {
	return readFile(ModeReadBinary, name, r, opts)
}

func ReadTextFile(name string, r Record, opts ...Option) error {
	return readFile(ModeReadText, name, r, opts)
}

func openErr(mode Mode, name string, err error) error {
	return &Error{Mode: mode, Kind: ErrOpen, Msg: name, Err: err}
}

func writeFile(mode Mode, name string, r Record, opts []Option) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return openErr(mode, name, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", name)
		}
	}()

	if err := writeStream(mode, f, r, opts); err != nil {
		return err
	}
	logrus.WithField("file", name).WithField("mode", mode).Debugf("wrote record")
	return nil
}

func readFile(mode Mode, name string, r Record, opts []Option) error {
	f, err := os.Open(name)
	if err != nil {
		return openErr(mode, name, err)
	}
	defer f.Close()

	if err := readStream(mode, bufio.NewReader(f), r, opts); err != nil {
		return err
	}
	logrus.WithField("file", name).WithField("mode", mode).Debugf("read record")
	return nil
}
