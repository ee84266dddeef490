package repository

import (
	"errors"

	"VidTube/internal/apperr"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// MySQL错误号1062就是 "Duplicate entry"
const mysqlDuplicateEntry = 1062

// translate 把gorm/MySQL的错误翻译成业务错误分类，notFound是记录不存在时展示给用户的信息
func translate(err error, notFound string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Wrap(apperr.KindNotFound, notFound, err)
	}
	if IsDuplicate(err) {
		return apperr.Wrap(apperr.KindConflict, "记录已存在", err)
	}
	return apperr.Internal("数据库操作失败", err)
}

// IsDuplicate 用errors.As检查错误的“根”是不是唯一键冲突
func IsDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
