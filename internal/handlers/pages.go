package handlers

// HTML, который отдают verify и reset-страницы. Редирект через 5 секунд —
// поведение исходного клиента.

const verifiedPage = `<h4>You have been successfully verified. Kindly visit the login page.</h4> <script>setTimeout(() => { window.location.href = '/api/v1/login'; }, 5000);</script>`

const expiredPage = `<h4>This link is expired. Kindly check your email for another email to verify.</h4><script>setTimeout(() => { window.location.href = '/api/v1/login'; }, 5000);</script>`

// %s — URL действия сброса пароля для конкретного пользователя.
const resetPageTemplate = `<!DOCTYPE html>
<html>
<head><title>Reset Password</title></head>
<body>
  <h3>Choose a new password</h3>
  <form method="POST" action="%s">
    <input type="password" name="password" placeholder="New password" required>
    <button type="submit">Reset Password</button>
  </form>
</body>
</html>`
